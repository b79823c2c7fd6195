// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb"

	"bairros-map/internal/api"
	"bairros-map/internal/attrs"
	"bairros-map/internal/datasource"
	"bairros-map/internal/highlight"
	"bairros-map/internal/layer"
	"bairros-map/internal/logger"
	"bairros-map/internal/metrics"
	"bairros-map/internal/middleware"
	"bairros-map/internal/utils"
	"bairros-map/internal/version"
	"bairros-map/internal/viewer"
	"bairros-map/internal/web"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	defer logger.Close()
	l.Debug("log_init_ok", "commit", version.Commit)
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	apiBase = "/" + strings.Trim(apiBase, "/")
	l.Debug("config_api_base", "base", apiBase)

	fetcher := datasource.NewFetcher()

	// 图层是页面的前提，加载失败直接退出
	layerSrc := os.Getenv("LAYER_SOURCE")
	if layerSrc == "" {
		layerSrc = filepath.Join("data", "bairros_sedur.geojson")
	}
	ctx := context.Background()
	raw, err := fetcher.Fetch(ctx, layerSrc)
	if err != nil {
		l.Error("layer_fetch_error", "src", layerSrc, "err", err)
		os.Exit(1)
	}
	lyr, err := layer.Load(raw, layer.Options{
		CRS:       os.Getenv("LAYER_CRS"),
		NameField: os.Getenv("LAYER_NAME_FIELD"),
		CacheSize: envInt("HIT_CACHE_SIZE", 4096),
		CacheTTL:  time.Duration(envInt("HIT_CACHE_TTL_S", 600)) * time.Second,
	})
	if err != nil {
		l.Error("layer_load_error", "src", layerSrc, "err", err)
		os.Exit(1)
	}

	// 背景：属性表在后台加载一次；加载期间页面与图层可用，检索返回 503
	store := attrs.NewStore()
	attrsSrc := os.Getenv("ATTRS_SOURCE")
	if attrsSrc == "" {
		attrsSrc = filepath.Join("data", "dados_bairros.json")
	}
	l.Debug("config_attrs_source", "src", attrsSrc)
	var load attrs.LoadFunc
	db, isDB, err := utils.OpenAttrsDB(attrsSrc)
	switch {
	case err != nil:
		l.Error("db_open_error", "err", err)
		openErr := err
		load = func(context.Context) ([]attrs.Record, error) { return nil, openErr }
	case isDB:
		defer db.Close()
		l.Info("db_open_ok")
		load = db.Loader()
	default:
		load = attrs.FromJSON(fetcher.Func(attrsSrc), os.Getenv("ATTRS_VALIDATE") == "true")
	}
	go func() {
		lctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := store.Load(lctx, load); err != nil {
			metrics.AttrsLoadTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.AttrsLoadTotal.WithLabelValues("ok").Inc()
	}()

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	v := viewer.New(store, lyr, highlight.DefaultStyles())
	apiMux := api.BuildRoutes(v, api.Options{
		Redis:          rc,
		SearchCacheTTL: time.Duration(envInt("SEARCH_CACHE_TTL_S", 600)) * time.Second,
		CORSOrigins:    api.SplitOrigins(os.Getenv("CORS_ORIGINS")),
	})
	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle("/", web.Routes(v, web.Config{
		APIBase: apiBase,
		Center:  orb.Point{envFloat("MAP_CENTER_LON", -38.5014), envFloat("MAP_CENTER_LAT", -12.9714)},
		Zoom:    envFloat("MAP_ZOOM", 12),
		Commit:  version.Commit,
	}))

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = chimw.RequestID(handler)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		if err := utils.EnsureSelfSignedCert(certPath, keyPath, "bairros.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		if err := s.ListenAndServeTLS(certPath, keyPath); err != nil {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
	}
}

func envInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, e := strconv.Atoi(s); e == nil {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if s := os.Getenv(k); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil {
			return f
		}
	}
	return def
}
