package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"

	"bairros-map/internal/filter"
	"bairros-map/internal/hover"
	"bairros-map/internal/layer"
)

var criteriaKeys = []string{"sector", "zone", "unit", "name", "obs"}

func hasCriteria(r *http.Request) bool {
	q := r.URL.Query()
	for _, k := range criteriaKeys {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}

// 文档注释：解析检索条件
// 背景：GET 用查询参数（obs 可重复），POST 用 JSON 体；缺省字段即通配。
func parseCriteria(r *http.Request) (filter.Criteria, error) {
	var c filter.Criteria
	if r.Method == http.MethodPost {
		dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("bad criteria body: %w", err)
		}
		return c, nil
	}
	q := r.URL.Query()
	c.Sector = q.Get("sector")
	c.Zone = q.Get("zone")
	c.Unit = q.Get("unit")
	c.Name = q.Get("name")
	c.ObservationTags = q["obs"]
	return c, nil
}

// 文档注释：解析悬停事件
// 背景：页面可直接上报经纬度（lon/lat），也可上报容器像素（x/y）与视口参数，由服务端换算。
// 约束：page_x/page_y 缺省为 0；两种坐标都缺失时报错。
func parseEvent(q url.Values) (hover.Event, error) {
	var evt hover.Event
	var err error
	if evt.PageX, err = optFloat(q, "page_x"); err != nil {
		return evt, err
	}
	if evt.PageY, err = optFloat(q, "page_y"); err != nil {
		return evt, err
	}
	if q.Has("lon") && q.Has("lat") {
		lon, err1 := strconv.ParseFloat(q.Get("lon"), 64)
		lat, err2 := strconv.ParseFloat(q.Get("lat"), 64)
		if err1 != nil || err2 != nil {
			return evt, errors.New("bad lon/lat")
		}
		evt.Point = orb.Point{lon, lat}
		return evt, nil
	}
	if !q.Has("x") || !q.Has("y") {
		return evt, errors.New("need lon,lat or x,y with viewport")
	}
	var vals [7]float64
	for i, k := range []string{"x", "y", "width", "height", "zoom", "center_lon", "center_lat"} {
		v, err := strconv.ParseFloat(q.Get(k), 64)
		if err != nil {
			return evt, fmt.Errorf("bad %s", k)
		}
		vals[i] = v
	}
	vp := layer.Viewport{Center: orb.Point{vals[5], vals[6]}, Zoom: vals[4], Width: vals[2], Height: vals[3]}
	evt.Point = vp.PixelToLonLat(orb.Point{vals[0], vals[1]})
	return evt, nil
}

func optFloat(q url.Values, k string) (float64, error) {
	s := q.Get(k)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s", k)
	}
	return v, nil
}
