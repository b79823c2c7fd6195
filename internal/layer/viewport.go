package layer

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Web 墨卡托下 0 级每像素米数（256 像素瓦片）
const zoom0Resolution = 2 * math.Pi * 6378137 / 256

// 文档注释：地图视口
// 背景：页面上报的是相对地图容器的像素坐标；按 EPSG:3857 的中心点、缩放级别与容器尺寸换算为经纬度。
// 约束：不支持旋转；Center 为经纬度。
type Viewport struct {
	Center orb.Point
	Zoom   float64
	Width  float64
	Height float64
}

// Resolution 当前缩放级别下每像素的墨卡托米数
func (v Viewport) Resolution() float64 { return zoom0Resolution / math.Pow(2, v.Zoom) }

func (v Viewport) PixelToLonLat(px orb.Point) orb.Point {
	c := project.WGS84.ToMercator(v.Center)
	r := v.Resolution()
	m := orb.Point{c[0] + (px[0]-v.Width/2)*r, c[1] - (px[1]-v.Height/2)*r}
	return project.Mercator.ToWGS84(m)
}

func (v Viewport) LonLatToPixel(p orb.Point) orb.Point {
	c := project.WGS84.ToMercator(v.Center)
	m := project.WGS84.ToMercator(p)
	r := v.Resolution()
	return orb.Point{(m[0]-c[0])/r + v.Width/2, (c[1]-m[1])/r + v.Height/2}
}
