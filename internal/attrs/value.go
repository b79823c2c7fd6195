package attrs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 文档注释：可缺省的属性值
// 背景：源数据同一列既可能是字符串也可能是数字（如 SETOR、ZONA），也可能整列缺失或为 null；统一转成文本并显式记录是否存在。
// 约束：Present=false 表示缺失或 null；Present=true 且 Text 为空表示“出现过的空串”，两者在下拉与过滤中语义不同，在提示框中都显示占位文本。
type Value struct {
	Text    string
	Present bool
}

// Of 构造一个存在的值
func Of(s string) Value { return Value{Text: s, Present: true} }

// String 返回文本；缺失时为空串
func (v Value) String() string { return v.Text }

// Blank：缺失或仅含空白
func (v Value) Blank() bool { return !v.Present || strings.TrimSpace(v.Text) == "" }

// Or：缺失或空串时返回占位文本
func (v Value) Or(placeholder string) string {
	if !v.Present || v.Text == "" {
		return placeholder
	}
	return v.Text
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Of(s)
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = Of(strconv.FormatBool(x))
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*v = Of(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = Of(numberText(n))
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("null"), nil
	}
	return json.Marshal(v.Text)
}

// 数字按前端 toString 的习惯输出：3.0 -> "3"，0.5 -> "0.5"
func numberText(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
