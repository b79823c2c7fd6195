package proj

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestUTMCentralMeridianOnEquator(t *testing.T) {
	u := UTM{Zone: 24, South: true}
	got := u.ToWGS84(orb.Point{500000, 10000000})
	if math.Abs(got[0]-(-39)) > 1e-9 || math.Abs(got[1]) > 1e-9 {
		t.Fatalf("expected (-39, 0), got %v", got)
	}
}

func TestUTMRoundTrip(t *testing.T) {
	u := UTM{Zone: 24, South: true}
	for _, p := range []orb.Point{
		{-38.5014, -12.9714},
		{-38.45, -12.90},
		{-38.60, -13.01},
		{-39.0, -14.5},
	} {
		en := u.FromWGS84(p)
		back := u.ToWGS84(en)
		if math.Abs(back[0]-p[0]) > 1e-7 || math.Abs(back[1]-p[1]) > 1e-7 {
			t.Fatalf("round trip %v -> %v -> %v", p, en, back)
		}
	}
}

func TestSalvadorIsInSouthernFalseNorthing(t *testing.T) {
	en := UTM{Zone: 24, South: true}.FromWGS84(orb.Point{-38.5014, -12.9714})
	if en[0] < 500000 || en[0] > 600000 {
		t.Fatalf("easting out of range: %v", en[0])
	}
	if en[1] < 8500000 || en[1] > 8600000 {
		t.Fatalf("northing out of range: %v", en[1])
	}
}

// 萨尔瓦多市中心在 SIRGAS 2000 / UTM 24S 下的参考坐标
func TestUTMFixedPoint(t *testing.T) {
	u := UTM{Zone: 24, South: true}
	ll := orb.Point{-38.5014, -12.9714}
	en := orb.Point{554075.666, 8565974.226}

	got := u.FromWGS84(ll)
	if math.Abs(got[0]-en[0]) > 0.01 || math.Abs(got[1]-en[1]) > 0.01 {
		t.Fatalf("forward: expected %v, got %.4f,%.4f", en, got[0], got[1])
	}
	back := u.ToWGS84(en)
	if math.Abs(back[0]-ll[0]) > 1e-7 || math.Abs(back[1]-ll[1]) > 1e-7 {
		t.Fatalf("inverse: expected %v, got %.9f,%.9f", ll, back[0], back[1])
	}

	tr, err := Lookup("EPSG:31984")
	if err != nil {
		t.Fatal(err)
	}
	if p := tr(en); math.Abs(p[0]-ll[0]) > 1e-7 || math.Abs(p[1]-ll[1]) > 1e-7 {
		t.Fatalf("EPSG:31984 lookup: %v", p)
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name string
		in   orb.Point
		want orb.Point
	}{
		{"EPSG:4326", orb.Point{-38.5, -12.9}, orb.Point{-38.5, -12.9}},
		{"epsg:4674", orb.Point{-38.5, -12.9}, orb.Point{-38.5, -12.9}},
		{"EPSG:3857", orb.Point{0, 0}, orb.Point{0, 0}},
		{"EPSG:31984", orb.Point{500000, 10000000}, orb.Point{-39, 0}},
		{"+proj=utm +zone=24 +south +datum=SIRGAS2000 +units=m +no_defs", orb.Point{500000, 10000000}, orb.Point{-39, 0}},
	}
	for _, c := range cases {
		tr, err := Lookup(c.name)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		got := tr(c.in)
		if math.Abs(got[0]-c.want[0]) > 1e-9 || math.Abs(got[1]-c.want[1]) > 1e-9 {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"EPSG:2154", "nonsense", "+proj=longlat"} {
		if _, err := Lookup(name); !errors.Is(err, ErrUnknownCRS) {
			t.Fatalf("%s: expected ErrUnknownCRS, got %v", name, err)
		}
	}
}
