// 属性导入工具：读取属性 JSON（文件 / HTTP / S3），整表写入 PostgreSQL 或 SQLite 的 _bairro_attrs
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bairros-map/internal/attrs"
	"bairros-map/internal/datasource"
	"bairros-map/internal/logger"
	"bairros-map/internal/utils"
)

func usage() {
	fmt.Println("usage: attrs-import [--env file] [--db postgres|sqlite://path] [--no-validate] <source>")
	fmt.Println("  source: path, file://, http(s):// or s3://bucket/key")
}

func main() {
	var envFile, target, src string
	validate := true
	for i := 1; i < len(os.Args); i++ {
		a := os.Args[i]
		switch {
		case a == "--env" && i+1 < len(os.Args):
			envFile = os.Args[i+1]
			i++
		case a == "--db" && i+1 < len(os.Args):
			target = os.Args[i+1]
			i++
		case a == "--no-validate":
			validate = false
		case a == "-h" || a == "--help":
			usage()
			return
		case strings.HasPrefix(a, "-"):
			fmt.Println("unknown option:", a)
			usage()
			os.Exit(2)
		default:
			src = a
		}
	}
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load(".env")
	}
	l := logger.Setup()
	defer logger.Close()
	if src == "" {
		usage()
		os.Exit(2)
	}
	if target == "" {
		target = "postgres"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	recs, err := attrs.FromJSON(datasource.NewFetcher().Func(src), validate)(ctx)
	if err != nil {
		l.Error("import_read_error", "src", src, "err", err)
		os.Exit(1)
	}
	st, ok, err := utils.OpenAttrsDB(target)
	if !ok {
		fmt.Println("--db must be postgres or sqlite://path")
		os.Exit(2)
	}
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.ReplaceRecords(ctx, recs); err != nil {
		l.Error("import_write_error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d records into %s\n", len(recs), target)
}
