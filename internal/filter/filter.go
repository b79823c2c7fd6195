// 包 filter：按扇区、分区、供水单元、名称与观察标签筛选街区
package filter

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"

	"bairros-map/internal/attrs"
)

// 文档注释：一次检索的条件
// 背景：空串表示通配；ObservationTags 为空表示通配，非空时只要观察文本包含任一标签（子串）即命中。
// 约束：条件随请求创建与丢弃，不跨请求保存。
type Criteria struct {
	Sector          string   `json:"sector"`
	Zone            string   `json:"zone"`
	Unit            string   `json:"unit"`
	Name            string   `json:"name"`
	ObservationTags []string `json:"obs"`
}

// IsWildcard 所有条件均为通配；标签列表只有为空时才是通配
func (c Criteria) IsWildcard() bool {
	return c.Sector == "" && c.Zone == "" && c.Unit == "" && c.Name == "" && len(c.ObservationTags) == 0
}

// Key 返回稳定的缓存键：对条件的 JSON 编码取哈希，字段边界由编码保证
func (c Criteria) Key() string {
	if len(c.ObservationTags) == 0 {
		c.ObservationTags = nil
	}
	b, _ := json.Marshal(c)
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Matches 判定单条记录是否满足全部条件
func (c Criteria) Matches(r attrs.Record) bool {
	return matchText(c.Sector, r.Sector) &&
		matchText(c.Zone, r.Zone) &&
		matchText(c.Unit, r.Unit) &&
		matchText(c.Name, r.Name) &&
		matchTags(c.ObservationTags, r.Observation)
}

func matchText(want string, v attrs.Value) bool {
	return want == "" || (v.Present && v.Text == want)
}

// 缺失的观察字段视为“无标签”，非空标签列表下永不命中
func matchTags(tags []string, obs attrs.Value) bool {
	if len(tags) == 0 {
		return true
	}
	if !obs.Present {
		return false
	}
	for _, t := range tags {
		if strings.Contains(obs.Text, t) {
			return true
		}
	}
	return false
}

// 文档注释：线性扫描筛选
// 返回：保持输入顺序的子序列；无命中返回空切片而非 nil，调用方可直接序列化为 []。
func Filter(records []attrs.Record, c Criteria) []attrs.Record {
	out := make([]attrs.Record, 0)
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Names 提取记录名称，供高亮使用
func Names(records []attrs.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if r.Name.Present {
			out = append(out, r.Name.Text)
		}
	}
	return out
}
