package hover

import (
	"bytes"
	"html/template"

	"bairros-map/internal/attrs"
)

const (
	NotInformed = "Não Informado"
	None        = "Nenhuma"
)

// Line 提示框中的一行
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// 文档注释：固定格式的八行提示内容
// 约束：缺失的名称/扇区/分区/供水单元显示“Não Informado”，其余缺失项显示“Nenhuma”；空串与缺失同样处理。
func Lines(r attrs.Record) []Line {
	return []Line{
		{"Bairro", r.Name.Or(NotInformed)},
		{"Setor", r.Sector.Or(NotInformed)},
		{"Zona", r.Zone.Or(NotInformed)},
		{"UR-1", r.Unit.Or(NotInformed)},
		{"Reservatório", r.Reservoir.Or(None)},
		{"Localidade", r.Locality.Or(None)},
		{"Referência", r.Reference.Or(None)},
		{"Demandas MP", r.Observation.Or(None)},
	}
}

var tooltipTpl = template.Must(template.New("tooltip").Parse(
	`{{range $i, $l := .}}{{if $i}}<br>{{end}}<strong>{{$l.Label}}:</strong> {{$l.Value}}{{end}}`))

// HTML 渲染提示框；值经过转义
func HTML(s State) template.HTML {
	if !s.Visible {
		return ""
	}
	var buf bytes.Buffer
	if err := tooltipTpl.Execute(&buf, s.Lines); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
