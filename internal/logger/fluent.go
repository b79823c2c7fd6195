package logger

import (
	"context"
	"log/slog"
	"time"
)

// poster 抽象 fluent.Fluent.Post，便于测试替换
type poster interface {
	Post(tag string, message interface{}) error
}

// 文档注释：把 slog 记录转发为 Fluentd 事件
// 背景：部署环境通过 Fluentd 汇总日志；字段平铺为 map，tag 为 "<前缀>.<级别>"。
// 约束：发送失败静默丢弃，日志通道不能反过来阻断业务。
type FluentHandler struct {
	p      poster
	tag    string
	level  slog.Leveler
	fixed  map[string]interface{}
	groups []string
}

func NewFluentHandler(p poster, tag string, level slog.Leveler) *FluentHandler {
	return &FluentHandler{p: p, tag: tag, level: level}
}

func (h *FluentHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *FluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]interface{}, r.NumAttrs()+len(h.fixed)+3)
	for k, v := range h.fixed {
		data[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		put(data, h.prefix(), a)
		return true
	})
	data["level"] = r.Level.String()
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)
	_ = h.p.Post(h.tag+"."+lowerLevel(r.Level), data)
	return nil
}

func (h *FluentHandler) WithAttrs(as []slog.Attr) slog.Handler {
	c := *h
	c.fixed = make(map[string]interface{}, len(h.fixed)+len(as))
	for k, v := range h.fixed {
		c.fixed[k] = v
	}
	for _, a := range as {
		put(c.fixed, h.prefix(), a)
	}
	return &c
}

func (h *FluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

func (h *FluentHandler) prefix() string {
	p := ""
	for _, g := range h.groups {
		p += g + "."
	}
	return p
}

func put(m map[string]interface{}, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			put(m, prefix+a.Key+".", ga)
		}
		return
	}
	if err, ok := v.Any().(error); ok {
		m[prefix+a.Key] = err.Error()
		return
	}
	m[prefix+a.Key] = v.Any()
}

func lowerLevel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// Tee 将同一条记录分发到多个处理器
func Tee(hs ...slog.Handler) slog.Handler { return teeHandler(hs) }

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeHandler) WithAttrs(as []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(as)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
