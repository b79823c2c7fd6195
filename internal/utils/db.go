package utils

import (
	"os"
	"strconv"
	"strings"

	"bairros-map/internal/store"
)

// BuildPostgresDSNFromEnv 由 PG_* 环境变量拼接连接串
func BuildPostgresDSNFromEnv() string {
	host := envOr("PG_HOST", "localhost")
	port := envOr("PG_PORT", "5432")
	user := envOr("PG_USER", "postgres")
	pass := os.Getenv("PG_PASSWORD")
	db := envOr("PG_DB", "bairros")
	ssl := envOr("PG_SSLMODE", "disable")
	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

// OpenPostgresFromEnv 打开属性库（PostgreSQL），连接池上限可由 PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 调整
func OpenPostgresFromEnv() (*store.Store, error) {
	st, err := store.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			st.DB().SetMaxOpenConns(n)
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			st.DB().SetMaxIdleConns(n)
		}
	}
	return st, nil
}

// 文档注释：按来源串打开属性库
// 背景：ATTRS_SOURCE 与导入工具的 -db 参数共用同一写法："postgres" 走 PG_* 环境变量，"sqlite://path" 打开本地文件。
// 返回：非数据库来源时 ok=false。
func OpenAttrsDB(source string) (st *store.Store, ok bool, err error) {
	switch {
	case source == "postgres" || source == "postgresql":
		st, err = OpenPostgresFromEnv()
		return st, true, err
	case strings.HasPrefix(source, "sqlite://"):
		st, err = store.OpenSQLite(source)
		return st, true, err
	}
	return nil, false, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
