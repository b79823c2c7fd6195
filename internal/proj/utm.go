package proj

import (
	"math"

	"github.com/paulmach/orb"
)

// GRS80 椭球参数（SIRGAS 2000 与 WGS84 在米级精度内一致）
const (
	grs80A  = 6378137.0
	grs80F  = 1 / 298.257222101
	utmK0   = 0.9996
	falseE  = 500000.0
	falseNS = 10000000.0
)

var (
	e2  = grs80F * (2 - grs80F)
	ep2 = e2 / (1 - e2)
)

// UTM 横轴墨卡托分带；South 为真时北向加 10000km 假北
type UTM struct {
	Zone  int
	South bool
}

func (u UTM) centralMeridian() float64 { return float64(u.Zone*6-183) * math.Pi / 180 }

// 文档注释：UTM 坐标（东向/北向，米）转经纬度
// 背景：Snyder《Map Projections》公式 8-18 起的级数展开；在分带内误差远小于 1 米。
// 约束：输入为 orb.Point{easting, northing}，输出为 orb.Point{lon, lat}（度）。
func (u UTM) ToWGS84(p orb.Point) orb.Point {
	x := p[0] - falseE
	y := p[1]
	if u.South {
		y -= falseNS
	}
	m := y / utmK0
	mu := m / (grs80A * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	se := math.Sqrt(1 - e2)
	e1 := (1 - se) / (1 + se)
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1 := math.Sin(phi1), math.Cos(phi1)
	tan1 := math.Tan(phi1)
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	w := 1 - e2*sin1*sin1
	n1 := grs80A / math.Sqrt(w)
	r1 := grs80A * (1 - e2) / math.Pow(w, 1.5)
	d := x / (n1 * utmK0)

	lat := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := u.centralMeridian() + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

	return orb.Point{lon * 180 / math.Pi, lat * 180 / math.Pi}
}

// 经纬度转 UTM；供离线工具与测试做往返校验
func (u UTM) FromWGS84(p orb.Point) orb.Point {
	phi := p[1] * math.Pi / 180
	lam := p[0] * math.Pi / 180
	sinp, cosp := math.Sin(phi), math.Cos(phi)
	tanp := math.Tan(phi)
	n := grs80A / math.Sqrt(1-e2*sinp*sinp)
	t := tanp * tanp
	c := ep2 * cosp * cosp
	a := cosp * (lam - u.centralMeridian())
	m := grs80A * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	x := utmK0*n*(a+(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + falseE
	y := utmK0 * (m + n*tanp*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	if u.South {
		y += falseNS
	}
	return orb.Point{x, y}
}
