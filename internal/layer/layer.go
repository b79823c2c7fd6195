// 包 layer：街区多边形图层（bairros_sedur.geojson）的加载、重投影与像素命中判定
package layer

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"bairros-map/internal/logger"
	"bairros-map/internal/proj"
)

var ErrEmptyLayer = errors.New("layer has no polygon features")

// 文档注释：图层中的单个要素
// 背景：几何已转换为 WGS84 经纬度；Index 为在原集合中的位置，越靠后绘制越靠上。
// 约束：仅保留 Polygon/MultiPolygon；第一环为外环，其余为洞。
type Feature struct {
	Index      int
	Name       string
	Geometry   orb.Geometry
	Bound      orb.Bound
	Properties geojson.Properties
}

// Options 图层加载参数
type Options struct {
	CRS       string        // 数据坐标系，默认 EPSG:31984
	NameField string        // 名称属性，默认 NOME_BAIRR
	CacheSize int           // 命中缓存容量，<=0 时关闭
	CacheTTL  time.Duration // 命中缓存有效期
}

// Layer 只读图层；加载完成后可并发查询
type Layer struct {
	features  []Feature
	byName    map[string]int
	nameField string
	cache     *hitCache
}

// 文档注释：解析并重投影 GeoJSON 要素集合
// 背景：源文件按 SIRGAS 2000 / UTM 24S 发布，页面与命中判定统一使用经纬度；在加载时一次性转换，避免每次查询换算。
// 返回：图层；JSON 不合法、坐标系未知或不含任何面要素时返回错误。
func Load(b []byte, o Options) (*Layer, error) {
	if o.CRS == "" {
		o.CRS = "EPSG:31984"
	}
	if o.NameField == "" {
		o.NameField = "NOME_BAIRR"
	}
	tr, err := proj.Lookup(o.CRS)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	l := &Layer{byName: map[string]int{}, nameField: o.NameField}
	if o.CacheSize > 0 {
		l.cache = newHitCache(o.CacheSize, o.CacheTTL)
	}
	skipped := 0
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			skipped++
			logger.L().Debug("layer_skip_geometry", "type", f.Geometry.GeoJSONType())
			continue
		}
		g := project.Geometry(f.Geometry, tr)
		ft := Feature{
			Index:      len(l.features),
			Name:       propText(f.Properties, o.NameField),
			Geometry:   g,
			Bound:      g.Bound(),
			Properties: f.Properties,
		}
		if _, ok := l.byName[ft.Name]; !ok && ft.Name != "" {
			l.byName[ft.Name] = ft.Index
		}
		l.features = append(l.features, ft)
	}
	if len(l.features) == 0 {
		return nil, ErrEmptyLayer
	}
	logger.L().Info("layer_load_ok", "features", len(l.features), "skipped", skipped, "crs", o.CRS)
	return l, nil
}

// 属性值转文本；数字按前端习惯输出
func propText(p geojson.Properties, key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (l *Layer) Len() int { return len(l.features) }

// Features 按绘制顺序返回全部要素；调用方不得修改
func (l *Layer) Features() []Feature { return l.features }

// Names 按绘制顺序返回要素名称
func (l *Layer) Names() []string {
	out := make([]string, len(l.features))
	for i, f := range l.features {
		out[i] = f.Name
	}
	return out
}

func (l *Layer) NameField() string { return l.nameField }

// FeatureByName 返回同名要素中的第一个
func (l *Layer) FeatureByName(name string) (Feature, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Feature{}, false
	}
	return l.features[i], true
}

// Bound 整个图层的外包框
func (l *Layer) Bound() orb.Bound {
	b := l.features[0].Bound
	for _, f := range l.features[1:] {
		b = b.Union(f.Bound)
	}
	return b
}
