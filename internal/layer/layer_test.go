package layer

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"bairros-map/internal/proj"
)

func square(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func collection(t *testing.T, fs ...*geojson.Feature) []byte {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for _, f := range fs {
		fc.Append(f)
	}
	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func named(g orb.Geometry, name string) *geojson.Feature {
	f := geojson.NewFeature(g)
	f.Properties["NOME_BAIRR"] = name
	return f
}

func fixture(t *testing.T) *Layer {
	t.Helper()
	b := collection(t,
		named(orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)}, "ComFuro"),
		named(orb.Polygon{square(8, 8, 12, 12)}, "Sobreposto"),
		named(orb.MultiPolygon{{square(20, 0, 22, 2)}, {square(30, 0, 32, 2)}}, "Ilhas"),
		geojson.NewFeature(orb.Point{1, 1}),
	)
	l, err := Load(b, Options{CRS: "EPSG:4326", CacheSize: 16, CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return l
}

func TestLoadSkipsNonPolygons(t *testing.T) {
	l := fixture(t)
	if l.Len() != 3 {
		t.Fatalf("expected 3 polygon features, got %d", l.Len())
	}
	if got := l.Names(); got[0] != "ComFuro" || got[2] != "Ilhas" {
		t.Fatalf("names: %v", got)
	}
}

func TestHitTestHolesAndMultiPolygon(t *testing.T) {
	l := fixture(t)
	cases := []struct {
		pt   orb.Point
		want []string
	}{
		{orb.Point{1, 1}, []string{"ComFuro"}},
		{orb.Point{5, 5}, nil},
		{orb.Point{31, 1}, []string{"Ilhas"}},
		{orb.Point{25, 1}, nil},
		{orb.Point{9, 9}, []string{"Sobreposto", "ComFuro"}},
	}
	for _, c := range cases {
		hits := l.HitTest(c.pt)
		if len(hits) != len(c.want) {
			t.Fatalf("%v: expected %v, got %d hits", c.pt, c.want, len(hits))
		}
		for i, h := range hits {
			if h.Name != c.want[i] {
				t.Fatalf("%v: expected %v at %d, got %s", c.pt, c.want, i, h.Name)
			}
		}
	}
}

func TestHitTestCacheAgreesWithUncached(t *testing.T) {
	l := fixture(t)
	pt := orb.Point{9, 9}
	first := l.HitTest(pt)
	second := l.HitTest(pt)
	if len(first) != len(second) || first[0].Name != second[0].Name {
		t.Fatalf("cached result differs: %v vs %v", first, second)
	}
	if l.cache.Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", l.cache.Len())
	}
	top, ok := l.Top(pt)
	if !ok || top.Name != "Sobreposto" {
		t.Fatalf("top: %v %v", top.Name, ok)
	}
}

func TestLoadReprojectsUTM(t *testing.T) {
	u := proj.UTM{Zone: 24, South: true}
	var ring orb.Ring
	for _, p := range square(-38.52, -12.99, -38.48, -12.95) {
		ring = append(ring, u.FromWGS84(p))
	}
	l, err := Load(collection(t, named(orb.Polygon{ring}, "Centro")), Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	top, ok := l.Top(orb.Point{-38.5014, -12.9714})
	if !ok || top.Name != "Centro" {
		t.Fatalf("expected hit on reprojected polygon")
	}
	if _, ok := l.Top(orb.Point{-38.40, -12.9714}); ok {
		t.Fatalf("point east of the polygon must miss")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load([]byte(`{"type":"FeatureCollection","features":[]}`), Options{CRS: "EPSG:4326"}); !errors.Is(err, ErrEmptyLayer) {
		t.Fatalf("expected ErrEmptyLayer, got %v", err)
	}
	if _, err := Load([]byte(`{`), Options{CRS: "EPSG:4326"}); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load([]byte(`{}`), Options{CRS: "EPSG:1"}); !errors.Is(err, proj.ErrUnknownCRS) {
		t.Fatalf("expected ErrUnknownCRS, got %v", err)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{Center: orb.Point{-38.5014, -12.9714}, Zoom: 12, Width: 800, Height: 600}
	c := v.PixelToLonLat(orb.Point{400, 300})
	if math.Abs(c[0]-v.Center[0]) > 1e-9 || math.Abs(c[1]-v.Center[1]) > 1e-9 {
		t.Fatalf("centre pixel must map to centre, got %v", c)
	}
	p := orb.Point{123, 456}
	back := v.LonLatToPixel(v.PixelToLonLat(p))
	if math.Abs(back[0]-p[0]) > 1e-6 || math.Abs(back[1]-p[1]) > 1e-6 {
		t.Fatalf("round trip: %v", back)
	}
	right := v.PixelToLonLat(orb.Point{800, 300})
	if right[0] <= c[0] {
		t.Fatalf("x grows eastwards")
	}
	down := v.PixelToLonLat(orb.Point{400, 600})
	if down[1] >= c[1] {
		t.Fatalf("y grows southwards")
	}
}

func TestHitCacheEvictsOldest(t *testing.T) {
	c := newHitCache(2, time.Minute)
	c.Add("a", []int{1})
	c.Add("b", []int{2})
	c.Get("a")
	c.Add("c", []int{3})
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v[0] != 1 {
		t.Fatalf("a should remain")
	}
}

func TestHitCacheExpires(t *testing.T) {
	c := newHitCache(4, 20*time.Millisecond)
	c.Add("a", []int{1})
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("fresh entry must be served")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expired entry must not be served")
	}
}
