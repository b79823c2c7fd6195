package api

import (
	"encoding/json"
	"net/http"

	"bairros-map/internal/attrs"
	"bairros-map/internal/filter"
	"bairros-map/internal/logger"
	"bairros-map/internal/metrics"
	"bairros-map/internal/viewer"
)

// 文档注释：带 Redis 缓存的检索
// 背景：属性表加载后只读，同一数据版本下同一条件的命中名称不会变化；缓存名称列表而非整份指令，指令按当前图层重建。
// 约束：键含数据摘要，重新导入或多实例使用不同数据源时互不命中。
// 约束：未就绪时不读缓存，直接返回 ErrNotReady；Redis 异常只记日志，回退到本地计算。
func (s *server) searchCached(r *http.Request, c filter.Criteria) (viewer.Instruction, error) {
	if s.v.Store().State() != attrs.Ready || s.rc == nil {
		return s.v.Search(r.Context(), c)
	}
	ctx := r.Context()
	key := "search:" + s.v.Store().Version() + ":" + c.Key()
	if raw, err := s.rc.Get(ctx, key).Result(); err == nil && raw != "" {
		var names []string
		if json.Unmarshal([]byte(raw), &names) == nil {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return s.v.Instruction(names), nil
		}
	}
	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	ins, err := s.v.Search(ctx, c)
	if err != nil {
		return ins, err
	}
	b, _ := json.Marshal(ins.Matched)
	if err := s.rc.Set(ctx, key, string(b), s.ttl).Err(); err != nil {
		logger.L().Debug("search_cache_set_error", "err", err)
	}
	return ins, nil
}
