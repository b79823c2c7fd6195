// 包 attrs：街区属性表（dados_bairros.json）的解析与只读存储
package attrs

import (
	"encoding/json"
	"fmt"
)

// 文档注释：单个街区的属性记录
// 背景：字段名沿用源 JSON 的列名；name 与多边形图层的 NOME_BAIRR 属性一一对应，是唯一的关联键。
// 约束：加载后只读；所有字段均可缺省，由 Value 表达。
type Record struct {
	Name        Value `json:"NOME_BAIRR"`
	Sector      Value `json:"SETOR"`
	Zone        Value `json:"ZONA"`
	Unit        Value `json:"UR-1"`
	Reservoir   Value `json:"RESERVATORIO"`
	Locality    Value `json:"LOCALIDADE"`
	Reference   Value `json:"REFERENCIA"`
	Observation Value `json:"Obs"`
}

// Decode 解析属性数组；失败统一包装为 ErrLoad
func Decode(b []byte) ([]Record, error) {
	var out []Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	return out, nil
}
