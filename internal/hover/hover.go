// 包 hover：鼠标悬停检查器（Hidden / Shown 两态）与提示框内容
package hover

import (
	"html/template"
	"sync"

	"github.com/paulmach/orb"

	"bairros-map/internal/attrs"
	"bairros-map/internal/layer"
	"bairros-map/internal/metrics"
)

// 提示框相对鼠标页面坐标的偏移（像素）
const Offset = 10

// HitTester 返回坐标下的要素，最上层优先
type HitTester interface {
	HitTest(pt orb.Point) []layer.Feature
}

// Lookup 按名称查找属性记录；State 用于区分“未加载”与“查无此名”
type Lookup interface {
	FindByName(name string) (attrs.Record, bool)
	State() attrs.State
}

// Event 一次指针移动：Point 为地图坐标（经纬度），PageX/PageY 为页面坐标
type Event struct {
	Point orb.Point
	PageX float64
	PageY float64
}

// 文档注释：检查器状态
// 背景：Visible=false 即 Hidden；Visible=true 即 Shown(Record)，同时给出提示框内容与位置。
type State struct {
	Visible bool          `json:"visible"`
	Record  *attrs.Record `json:"record,omitempty"`
	Lines   []Line        `json:"lines,omitempty"`
	HTML    template.HTML `json:"html,omitempty"`
	Left    float64       `json:"left"`
	Top     float64       `json:"top"`
}

// Hidden 隐藏态
func Hidden() State { return State{} }

// Inspector 持有当前状态；每次移动都重新判定
type Inspector struct {
	hits HitTester
	recs Lookup
	mu   sync.Mutex
	cur  State
}

func NewInspector(h HitTester, r Lookup) *Inspector {
	return &Inspector{hits: h, recs: r}
}

// 文档注释：纯状态转换
// 背景：只检查最上层要素；要素名称无对应记录时静默隐藏（记为 lookup miss，不报错）。
// 约束：即使与上一次是同一记录也重新生成状态与位置；记录未就绪时直接隐藏，不计入 lookup miss。
func (i *Inspector) Inspect(evt Event) State {
	if i.recs.State() != attrs.Ready {
		metrics.HoverTotal.WithLabelValues("not_ready").Inc()
		return Hidden()
	}
	hits := i.hits.HitTest(evt.Point)
	if len(hits) == 0 {
		metrics.HoverTotal.WithLabelValues("miss").Inc()
		return Hidden()
	}
	rec, ok := i.recs.FindByName(hits[0].Name)
	if !ok {
		metrics.HoverTotal.WithLabelValues("unresolved").Inc()
		metrics.LookupMissTotal.Inc()
		return Hidden()
	}
	metrics.HoverTotal.WithLabelValues("shown").Inc()
	s := State{
		Visible: true,
		Record:  &rec,
		Lines:   Lines(rec),
		Left:    evt.PageX + Offset,
		Top:     evt.PageY + Offset,
	}
	s.HTML = HTML(s)
	return s
}

// Move 判定并保存为当前状态
func (i *Inspector) Move(evt Event) State {
	s := i.Inspect(evt)
	i.mu.Lock()
	i.cur = s
	i.mu.Unlock()
	return s
}

// Current 最近一次 Move 的结果
func (i *Inspector) Current() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cur
}
