// 包 logger：统一初始化与获取日志器；通过环境变量控制日志级别、输出格式与 Fluentd 转发
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
)

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	fluentClient  *fluent.Fluent
)

// Options：Setup 的显式参数；零值等价于“info + 文本 + 标准错误”
type Options struct {
	Level  slog.Level
	Format string // text | json | color
	Writer io.Writer
}

// OptionsFromEnv 读取 LOG_LEVEL / LOG_FORMAT
func OptionsFromEnv() Options {
	o := Options{Level: slog.LevelInfo, Format: strings.ToLower(os.Getenv("LOG_FORMAT"))}
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		o.Level = slog.LevelDebug
	case "warn":
		o.Level = slog.LevelWarn
	case "error":
		o.Level = slog.LevelError
	}
	return o
}

// 文档注释：初始化默认日志器
// 背景：集中化日志配置；color 格式用于本地开发终端，json 用于容器采集。
// 约束：配置了 FLUENT_HOST 时额外复制一份到 Fluentd，连接失败仅记录告警，不影响本地输出。
func Setup() *slog.Logger {
	return SetupWith(OptionsFromEnv())
}

func SetupWith(o Options) *slog.Logger {
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}
	var h slog.Handler
	switch o.Format {
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: o.Level})
	case "color":
		h = tint.NewHandler(w, &tint.Options{Level: o.Level, TimeFormat: time.DateTime})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: o.Level})
	}
	var fluentErr error
	if host := os.Getenv("FLUENT_HOST"); host != "" {
		port := 24224
		if s := os.Getenv("FLUENT_PORT"); s != "" {
			if n, e := strconv.Atoi(s); e == nil && n > 0 {
				port = n
			}
		}
		tag := os.Getenv("FLUENT_TAG")
		if tag == "" {
			tag = "bairros"
		}
		fc, err := fluent.New(fluent.Config{FluentHost: host, FluentPort: port, Async: true})
		if err != nil {
			fluentErr = err
		} else {
			mu.Lock()
			fluentClient = fc
			mu.Unlock()
			h = Tee(h, NewFluentHandler(fc, tag, o.Level))
		}
	}
	l := slog.New(h)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	if fluentErr != nil {
		l.Warn("fluent_connect_error", "err", fluentErr)
	}
	return l
}

// L：获取默认日志器；若未初始化则回退到 Setup
func L() *slog.Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		return Setup()
	}
	return l
}

// Close 刷新并关闭 Fluentd 连接；进程退出前调用
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if fluentClient != nil {
		_ = fluentClient.Close()
		fluentClient = nil
	}
}
