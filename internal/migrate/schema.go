package migrate

import (
	"context"
	"database/sql"

	"bairros-map/internal/logger"
)

// 背景：首次导入或启动时自动创建属性表，保障后续导入与读取
// 约束：语句需同时兼容 PostgreSQL 与 SQLite；使用 IF NOT EXISTS 避免与既有结构冲突
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _bairro_attrs (
            ord INTEGER PRIMARY KEY,
            nome_bairr TEXT,
            setor TEXT,
            zona TEXT,
            ur1 TEXT,
            reservatorio TEXT,
            localidade TEXT,
            referencia TEXT,
            obs TEXT,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_bairro_attrs_nome ON _bairro_attrs(nome_bairr)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
