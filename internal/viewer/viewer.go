// 包 viewer：显式的会话对象，把属性存储、图层与样式组合成可测试的处理函数
package viewer

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"

	"bairros-map/internal/attrs"
	"bairros-map/internal/facets"
	"bairros-map/internal/filter"
	"bairros-map/internal/highlight"
	"bairros-map/internal/hover"
	"bairros-map/internal/layer"
	"bairros-map/internal/logger"
	"bairros-map/internal/metrics"
)

// Instruction 一次检索或清除后的渲染指令
type Instruction struct {
	Matched    []string             `json:"matched"`
	Count      int                  `json:"count"`
	Assignment highlight.Assignment `json:"assignment"`
}

// 文档注释：查看器会话
// 背景：取代页面脚本中的模块级变量；存储未就绪时检索返回 attrs.ErrNotReady，由边界层上报而不是崩溃。
// 约束：Store 与 Layer 均为只读共享，Viewer 可被多个请求并发使用。
type Viewer struct {
	store     *attrs.Store
	layer     *layer.Layer
	styles    highlight.Styles
	inspector *hover.Inspector
}

func New(store *attrs.Store, l *layer.Layer, styles highlight.Styles) *Viewer {
	return &Viewer{store: store, layer: l, styles: styles, inspector: hover.NewInspector(l, store)}
}

func (v *Viewer) Store() *attrs.Store         { return v.store }
func (v *Viewer) Layer() *layer.Layer         { return v.layer }
func (v *Viewer) Styles() highlight.Styles    { return v.styles }
func (v *Viewer) Inspector() *hover.Inspector { return v.inspector }

// Facets 当前可选项；未就绪时为空列表
func (v *Viewer) Facets() facets.Facets { return facets.Populate(v.store.Records()) }

// 文档注释：执行检索并生成高亮指令
// 返回：未就绪时返回 ErrNotReady；无命中返回 Count=0 的指令。
func (v *Viewer) Search(ctx context.Context, c filter.Criteria) (Instruction, error) {
	metrics.SearchTotal.Inc()
	if v.store.State() != attrs.Ready {
		metrics.SearchNotReadyTotal.Inc()
		logger.L().Warn("search_not_ready", "state", v.store.State().String())
		return Instruction{}, attrs.ErrNotReady
	}
	start := time.Now()
	names := filter.Names(filter.Filter(v.store.Records(), c))
	ins := v.instruction(names)
	metrics.SearchDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.SearchMatches.Observe(float64(len(names)))
	logger.L().DebugContext(ctx, "search_done", "matched", len(names), "highlighted", ins.Count)
	return ins, nil
}

// Instruction 由已知的命中名称生成指令（用于缓存命中时复用）
func (v *Viewer) Instruction(matched []string) Instruction { return v.instruction(matched) }

func (v *Viewer) instruction(matched []string) Instruction {
	a := highlight.Render(v.layer.Names(), matched)
	if matched == nil {
		matched = []string{}
	}
	return Instruction{Matched: matched, Count: a.Count(), Assignment: a}
}

// Clear 所有要素恢复默认样式
func (v *Viewer) Clear() Instruction {
	a := highlight.Clear(v.layer.Names())
	return Instruction{Matched: []string{}, Count: 0, Assignment: a}
}

// Move 处理一次指针移动
func (v *Viewer) Move(evt hover.Event) hover.State { return v.inspector.Move(evt) }

// Inspect 无状态判定，供 HTTP 接口使用
func (v *Viewer) Inspect(evt hover.Event) hover.State { return v.inspector.Inspect(evt) }

// Styled 按指令输出带样式的 GeoJSON
func (v *Viewer) Styled(a highlight.Assignment) *geojson.FeatureCollection {
	return highlight.StyledCollection(v.layer.Features(), a, v.styles)
}
