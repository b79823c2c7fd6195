// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"bairros-map/internal/attrs"
	"bairros-map/internal/logger"
	"bairros-map/internal/metrics"
	"bairros-map/internal/viewer"
)

// Options 路由构建参数
type Options struct {
	Redis          *redis.Client // 为 nil 时关闭检索缓存
	SearchCacheTTL time.Duration
	CORSOrigins    []string
}

type server struct {
	v   *viewer.Viewer
	rc  *redis.Client
	ttl time.Duration
}

// 文档注释：构建并返回 API 路由
// 背景：独立路由便于在主入口挂载到 API_BASE 前缀；所有处理函数只做参数解析与错误映射，业务判定在 viewer 中完成。
func BuildRoutes(v *viewer.Viewer, o Options) http.Handler {
	if o.SearchCacheTTL <= 0 {
		o.SearchCacheTTL = 10 * time.Minute
	}
	s := &server{v: v, rc: o.Redis, ttl: o.SearchCacheTTL}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if len(o.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Get("/status", s.status)
	r.Get("/facets", s.facets)
	r.Get("/search", s.search)
	r.Post("/search", s.search)
	r.Post("/clear", s.clear)
	r.Get("/inspect", s.inspect)
	r.Get("/records/{name}", s.record)
	r.Get("/layer", s.layer)
	r.Handle("/metrics", metrics.Handler())
	return r
}

func (s *server) status(w http.ResponseWriter, r *http.Request) {
	st := s.v.Store()
	l := s.v.Layer()
	b := l.Bound()
	m := map[string]any{
		"state":      st.State().String(),
		"records":    len(st.Records()),
		"features":   l.Len(),
		"name_field": l.NameField(),
		"bound":      [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
	}
	if err := st.Err(); err != nil {
		m["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.v.Facets())
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ins, err := s.searchCached(r, c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

func (s *server) clear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.v.Clear())
}

func (s *server) inspect(w http.ResponseWriter, r *http.Request) {
	evt, err := parseEvent(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.v.Inspect(evt))
}

func (s *server) record(w http.ResponseWriter, r *http.Request) {
	if s.v.Store().State() != attrs.Ready {
		writeError(w, http.StatusServiceUnavailable, attrs.ErrNotReady)
		return
	}
	name := chi.URLParam(r, "name")
	rec, ok := s.v.Store().FindByName(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("record not found: "+name))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// 文档注释：带样式的图层
// 背景：无检索参数时全部为默认样式；带参数时与 /search 同一判定，页面一次请求即可重绘。
func (s *server) layer(w http.ResponseWriter, r *http.Request) {
	ins := s.v.Clear()
	if hasCriteria(r) {
		c, err := parseCriteria(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if ins, err = s.searchCached(r, c); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	b, err := json.Marshal(s.v.Styled(ins.Assignment))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("content-type", "application/geo+json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, attrs.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		logger.L().Warn("api_error", "code", code, "err", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// SplitOrigins 解析 CORS_ORIGINS（逗号分隔）
func SplitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
