// 包 highlight：根据检索结果为多边形要素分配“命中/默认”两种样式
package highlight

import (
	"github.com/paulmach/orb/geojson"

	"bairros-map/internal/layer"
)

// Kind 要素样式类别
type Kind string

const (
	Default Kind = "default"
	Matched Kind = "matched"
)

// Style 描边与填充；颜色为 CSS 颜色串，页面直接使用
type Style struct {
	Stroke string  `json:"stroke"`
	Fill   string  `json:"fill"`
	Width  float64 `json:"width"`
}

// Styles 两种样式的调色板
type Styles struct {
	Matched Style `json:"matched"`
	Default Style `json:"default"`
}

// DefaultStyles 命中为红色、默认为蓝色，填充透明度 0.1
func DefaultStyles() Styles {
	return Styles{
		Matched: Style{Stroke: "red", Fill: "rgba(255, 0, 0, 0.1)", Width: 1},
		Default: Style{Stroke: "blue", Fill: "rgba(0, 0, 255, 0.1)", Width: 1},
	}
}

func (s Styles) For(k Kind) Style {
	if k == Matched {
		return s.Matched
	}
	return s.Default
}

// Assignment 要素名称到样式类别
type Assignment map[string]Kind

// 文档注释：计算每个要素的样式类别
// 背景：样式只取决于要素名称是否在命中集合中；同样的输入重复调用得到同样的结果。
// 约束：命中集合里没有对应要素的名称被忽略；同名要素共享同一类别。
func Render(featureNames []string, matchedNames []string) Assignment {
	hit := make(map[string]struct{}, len(matchedNames))
	for _, n := range matchedNames {
		hit[n] = struct{}{}
	}
	a := make(Assignment, len(featureNames))
	for _, n := range featureNames {
		if _, ok := hit[n]; ok {
			a[n] = Matched
		} else {
			a[n] = Default
		}
	}
	return a
}

// Clear 全部恢复默认样式（“清除筛选”）
func Clear(featureNames []string) Assignment { return Render(featureNames, nil) }

// Count 命中类别的要素名称数
func (a Assignment) Count() int {
	n := 0
	for _, k := range a {
		if k == Matched {
			n++
		}
	}
	return n
}

// 文档注释：输出带样式属性的 GeoJSON
// 背景：页面不再自带投影与样式逻辑，直接按 simplestyle 属性（stroke/stroke-width/fill）绘制。
// 约束：几何为 WGS84；原始属性保留并追加 style 字段；不修改图层内的要素。
func StyledCollection(features []layer.Feature, a Assignment, s Styles) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		k := a[f.Name]
		if k == "" {
			k = Default
		}
		st := s.For(k)
		gf := geojson.NewFeature(f.Geometry)
		for key, v := range f.Properties {
			gf.Properties[key] = v
		}
		gf.Properties["name"] = f.Name
		gf.Properties["style"] = string(k)
		gf.Properties["stroke"] = st.Stroke
		gf.Properties["stroke-width"] = st.Width
		gf.Properties["fill"] = st.Fill
		fc.Append(gf)
	}
	return fc
}
