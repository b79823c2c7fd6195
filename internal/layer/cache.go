package layer

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// 文档注释：命中结果缓存（geohash 为键，值为命中要素下标）
// 背景：鼠标在同一位置附近反复移动时，同一坐标会被重复判定；缓存下标以跳过面内判定。
// 约束：图层只读，缓存无需失效通知；容量满时淘汰最久未用项，ttl<=0 表示不过期。
type hitCache = expirable.LRU[string, []int]

func newHitCache(size int, ttl time.Duration) *hitCache {
	return expirable.NewLRU[string, []int](size, nil, ttl)
}
