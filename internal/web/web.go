// 包 web：首页模板（五个筛选下拉框）、静态资源与前端配置脚本
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"bairros-map/internal/attrs"
	"bairros-map/internal/facets"
	"bairros-map/internal/logger"
	"bairros-map/internal/viewer"
)

//go:embed templates/index.html
var indexSrc string

//go:embed static
var staticFS embed.FS

var indexTmpl = template.Must(template.New("index").Parse(indexSrc))

// Config 暴露给页面的配置
type Config struct {
	Title   string
	APIBase string
	Center  orb.Point // 经纬度
	Zoom    float64
	Commit  string
}

type page struct {
	Title  string
	Facets facets.Facets
	Ready  bool
	State  string
}

// 文档注释：页面路由
// 背景：下拉框选项在服务端由 Facets 渲染（html/template 自动转义），页面脚本只负责地图绘制与调用 API。
// 约束：属性未就绪时照常出页面，下拉框为空并显示提示。
func Routes(v *viewer.Viewer, cfg Config) http.Handler {
	if cfg.Title == "" {
		cfg.Title = "Bairros de Salvador"
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "/api"
	}
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		st := v.Store().State()
		p := page{Title: cfg.Title, Facets: v.Facets(), Ready: st == attrs.Ready, State: st.String()}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, p); err != nil {
			logger.L().Error("index_render_error", "err", err)
		}
	})
	sub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	// NOTE: 向前端暴露 API 基础路径与地图初始视图，避免硬编码
	r.Get("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte(ConfigJS(cfg, v)))
	})
	return r
}

// ConfigJS 生成 config.js 内容；字符串一律经 JSON 编码
func ConfigJS(cfg Config, v *viewer.Viewer) string {
	var b strings.Builder
	set := func(name string, val any) {
		raw, _ := json.Marshal(val)
		b.WriteString("window." + name + "=")
		b.Write(raw)
		b.WriteString("\n")
	}
	set("__API_BASE__", cfg.APIBase)
	set("__MAP__", map[string]any{"center": []float64{cfg.Center[0], cfg.Center[1]}, "zoom": cfg.Zoom})
	set("__STYLES__", v.Styles())
	set("__COMMIT_SHA__", cfg.Commit)
	return b.String()
}
