package viewer

import (
	"sort"

	"bairros-map/internal/attrs"
	"bairros-map/internal/layer"
)

// 文档注释：连接键交叉检查结果
// 背景：运行时不匹配的要素与记录被静默跳过；离线检查工具用它把两侧的缺口都列出来。
type Report struct {
	FeaturesWithoutRecord []string `json:"features_without_record"`
	RecordsWithoutFeature []string `json:"records_without_feature"`
	DuplicateRecords      []string `json:"duplicate_records"`
	UnnamedRecords        int      `json:"unnamed_records"`
}

// OK 两侧完全对应
func (r Report) OK() bool {
	return len(r.FeaturesWithoutRecord) == 0 && len(r.RecordsWithoutFeature) == 0 &&
		len(r.DuplicateRecords) == 0 && r.UnnamedRecords == 0
}

// CrossCheck 按名称比对属性记录与图层要素；结果按字典序排列
func CrossCheck(recs []attrs.Record, l *layer.Layer) Report {
	rep := Report{FeaturesWithoutRecord: []string{}, RecordsWithoutFeature: []string{}, DuplicateRecords: []string{}}
	seen := map[string]int{}
	for _, r := range recs {
		if !r.Name.Present {
			rep.UnnamedRecords++
			continue
		}
		seen[r.Name.Text]++
	}
	for name, n := range seen {
		if n > 1 {
			rep.DuplicateRecords = append(rep.DuplicateRecords, name)
		}
		if _, ok := l.FeatureByName(name); !ok {
			rep.RecordsWithoutFeature = append(rep.RecordsWithoutFeature, name)
		}
	}
	done := map[string]bool{}
	for _, name := range l.Names() {
		if name == "" || done[name] {
			continue
		}
		done[name] = true
		if _, ok := seen[name]; !ok {
			rep.FeaturesWithoutRecord = append(rep.FeaturesWithoutRecord, name)
		}
	}
	sort.Strings(rep.FeaturesWithoutRecord)
	sort.Strings(rep.RecordsWithoutFeature)
	sort.Strings(rep.DuplicateRecords)
	return rep
}
