// 包 proj：数据集坐标系到 WGS84 的转换注册表
// 背景：行政边界来自 SEDUR，按 SIRGAS 2000 / UTM 24S（EPSG:31984）发布；服务端统一转换为经纬度后再做命中判定与输出。
package proj

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

var ErrUnknownCRS = errors.New("unknown crs")

// 文档注释：按坐标系名称查找到 WGS84 的转换函数
// 背景：支持 EPSG 代码（4326/4674 恒等、3857 Web 墨卡托、31977–31985 SIRGAS 2000 南半球 UTM）与 proj4 的 +proj=utm 定义。
// 约束：名称大小写不敏感；未知坐标系返回 ErrUnknownCRS，调用方决定是否回退为恒等。
func Lookup(name string) (orb.Projection, error) {
	s := strings.TrimSpace(name)
	if strings.HasPrefix(s, "+proj=") {
		u, err := parseProj4(s)
		if err != nil {
			return nil, err
		}
		return u.ToWGS84, nil
	}
	code := strings.ToUpper(s)
	code = strings.TrimPrefix(code, "EPSG:")
	switch code {
	case "", "4326", "4674", "CRS84", "WGS84":
		return identity, nil
	case "3857", "900913":
		return project.Mercator.ToWGS84, nil
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCRS, name)
	}
	if n >= 31977 && n <= 31985 {
		u := UTM{Zone: n - 31960, South: true}
		return u.ToWGS84, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCRS, name)
}

func identity(p orb.Point) orb.Point { return p }

// 解析 proj4 形式的 UTM 定义，例如 "+proj=utm +zone=24 +south +datum=SIRGAS2000 +units=m +no_defs"
func parseProj4(s string) (UTM, error) {
	var u UTM
	isUTM := false
	for _, part := range strings.Fields(s) {
		kv := strings.SplitN(strings.TrimPrefix(part, "+"), "=", 2)
		switch kv[0] {
		case "proj":
			isUTM = len(kv) == 2 && kv[1] == "utm"
		case "zone":
			if len(kv) == 2 {
				if z, err := strconv.Atoi(kv[1]); err == nil {
					u.Zone = z
				}
			}
		case "south":
			u.South = true
		}
	}
	if !isUTM || u.Zone < 1 || u.Zone > 60 {
		return UTM{}, fmt.Errorf("%w: %s", ErrUnknownCRS, s)
	}
	return u, nil
}
