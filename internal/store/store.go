// 包 store: 属性表的 SQL 访问层（PostgreSQL / SQLite），供服务读取与导入工具写入
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"bairros-map/internal/attrs"
	"bairros-map/internal/logger"
	"bairros-map/internal/migrate"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

// 文档注释：按驱动名打开数据库
// 约束：driver 取 "postgres" 或 "sqlite"；SQLite 仅允许单连接写入，连接池上限固定为 1。
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	return &Store{db: db}, nil
}

// OpenSQLite 打开（必要时创建）本地 SQLite 文件；接受 "sqlite://path" 或裸路径
func OpenSQLite(path string) (*Store, error) {
	return Open("sqlite", strings.TrimPrefix(path, "sqlite://"))
}

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// 文档注释：读取全部属性记录
// 背景：数据库来源与 JSON 文件等价，按导入时的原始顺序返回，保证筛选结果顺序一致。
// 约束：NULL 列映射为缺失值；空字符串保持为存在的空值。
func (s *Store) LoadRecords(ctx context.Context) ([]attrs.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT nome_bairr, setor, zona, ur1, reservatorio, localidade, referencia, obs
        FROM _bairro_attrs ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("query _bairro_attrs: %w", err)
	}
	defer rows.Close()
	out := []attrs.Record{}
	for rows.Next() {
		var c [8]sql.NullString
		if err := rows.Scan(&c[0], &c[1], &c[2], &c[3], &c[4], &c[5], &c[6], &c[7]); err != nil {
			return nil, err
		}
		out = append(out, attrs.Record{
			Name:        nullValue(c[0]),
			Sector:      nullValue(c[1]),
			Zone:        nullValue(c[2]),
			Unit:        nullValue(c[3]),
			Reservoir:   nullValue(c[4]),
			Locality:    nullValue(c[5]),
			Reference:   nullValue(c[6]),
			Observation: nullValue(c[7]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_attrs_loaded", "count", len(out))
	return out, nil
}

// Loader 适配为属性仓库的加载函数
func (s *Store) Loader() attrs.LoadFunc {
	return func(ctx context.Context) ([]attrs.Record, error) {
		recs, err := s.LoadRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", attrs.ErrLoad, err)
		}
		return recs, nil
	}
}

// 文档注释：整表替换属性记录
// 背景：属性表随外部 JSON 整体维护，导入即全量覆盖；单事务内先清空再写入，读方不会看到半张表。
// 约束：ord 取输入下标，保持文件顺序。
func (s *Store) ReplaceRecords(ctx context.Context, recs []attrs.Record) error {
	if err := migrate.EnsureSchema(ctx, s.db); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM _bairro_attrs`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _bairro_attrs(ord, nome_bairr, setor, zona, ur1, reservatorio, localidade, referencia, obs)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range recs {
		if _, err := stmt.ExecContext(ctx, i,
			nullString(r.Name), nullString(r.Sector), nullString(r.Zone), nullString(r.Unit),
			nullString(r.Reservoir), nullString(r.Locality), nullString(r.Reference), nullString(r.Observation),
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_attrs_replaced", "count", len(recs))
	return nil
}

// Count 返回当前记录数
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _bairro_attrs`).Scan(&n)
	return n, err
}

func nullValue(n sql.NullString) attrs.Value {
	if !n.Valid {
		return attrs.Value{}
	}
	return attrs.Of(n.String)
}

func nullString(v attrs.Value) sql.NullString {
	return sql.NullString{String: v.Text, Valid: v.Present}
}
