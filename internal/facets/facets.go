// 包 facets：从属性表派生五个下拉框的候选值
package facets

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bairros-map/internal/attrs"
)

// Facets 五个筛选维度的去重取值
type Facets struct {
	Sector      []string `json:"sector"`
	Zone        []string `json:"zone"`
	Unit        []string `json:"unit"`
	Name        []string `json:"name"`
	Observation []string `json:"obs"`
}

type set struct {
	seen map[string]struct{}
	vals []string
}

func newSet() *set { return &set{seen: map[string]struct{}{}, vals: []string{}} }

func (s *set) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.vals = append(s.vals, v)
}

// 文档注释：生成下拉候选
// 背景：扇区与观察字段在源数据中常为空白，空白值不作为选项；分区、供水单元与名称保留所有出现过的值（包括空串），缺失值没有可展示内容故跳过。
// 约束：观察选项是整段文本而非拆分后的标签；排序按巴西葡萄牙语排序规则，仅用于展示。
func Populate(records []attrs.Record) Facets {
	sec, zone, unit, name, obs := newSet(), newSet(), newSet(), newSet(), newSet()
	for _, r := range records {
		if !r.Sector.Blank() {
			sec.add(r.Sector.Text)
		}
		if r.Zone.Present {
			zone.add(r.Zone.Text)
		}
		if r.Unit.Present {
			unit.add(r.Unit.Text)
		}
		if r.Name.Present {
			name.add(r.Name.Text)
		}
		if !r.Observation.Blank() {
			obs.add(r.Observation.Text)
		}
	}
	col := collate.New(language.BrazilianPortuguese, collate.Numeric)
	f := Facets{Sector: sec.vals, Zone: zone.vals, Unit: unit.vals, Name: name.vals, Observation: obs.vals}
	for _, vs := range [][]string{f.Sector, f.Zone, f.Unit, f.Name, f.Observation} {
		col.SortStrings(vs)
	}
	return f
}
