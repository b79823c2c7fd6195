package layer

import (
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"bairros-map/internal/metrics"
)

// geohash 12 位约 3.7cm，足以区分相邻像素对应的坐标
const hitCachePrecision = 12

// 文档注释：点命中判定（经纬度）
// 背景：先用包围盒过滤候选，再做精确的面内判定（支持洞与多面）；与地图引擎一致，返回顺序为最上层优先。
// 约束：集合中越靠后的要素越晚绘制，即位于上层；未命中返回空切片。
func (l *Layer) HitTest(pt orb.Point) []Feature {
	var key string
	if l.cache != nil {
		key = geohash.EncodeWithPrecision(pt[1], pt[0], hitCachePrecision)
		if idx, ok := l.cache.Get(key); ok {
			metrics.HitCacheTotal.WithLabelValues("hit").Inc()
			return l.pick(idx)
		}
		metrics.HitCacheTotal.WithLabelValues("miss").Inc()
	}
	var idx []int
	for i := len(l.features) - 1; i >= 0; i-- {
		f := &l.features[i]
		if !f.Bound.Contains(pt) {
			continue
		}
		if contains(f.Geometry, pt) {
			idx = append(idx, i)
		}
	}
	if l.cache != nil {
		l.cache.Add(key, idx)
	}
	return l.pick(idx)
}

// Top 返回最上层命中要素
func (l *Layer) Top(pt orb.Point) (Feature, bool) {
	hits := l.HitTest(pt)
	if len(hits) == 0 {
		return Feature{}, false
	}
	return hits[0], true
}

func (l *Layer) pick(idx []int) []Feature {
	out := make([]Feature, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.features[i])
	}
	return out
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch v := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(v, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(v, pt)
	}
	return false
}
