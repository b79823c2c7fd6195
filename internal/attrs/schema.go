package attrs

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/attrs.schema.json
var schemaFS embed.FS

const schemaURL = "schema/attrs.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := schemaFS.ReadFile(schemaURL)
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// 文档注释：按内置 JSON Schema 校验属性文件
// 背景：数据文件由外部维护，默认不校验；开启 ATTRS_VALIDATE 或离线检查工具时使用，尽早发现列名拼写与类型错误。
// 返回：校验失败包装为 ErrLoad，错误信息包含 JSON 指针位置。
func Validate(b []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("compile attrs schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: schema: %v", ErrLoad, err)
	}
	return nil
}
