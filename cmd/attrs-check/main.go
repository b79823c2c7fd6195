// 属性检查工具：按 Schema 校验属性 JSON，并与 GeoJSON 图层交叉核对连接键（NOME_BAIRR）
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bairros-map/internal/attrs"
	"bairros-map/internal/datasource"
	"bairros-map/internal/layer"
	"bairros-map/internal/logger"
	"bairros-map/internal/viewer"
)

func usage() {
	fmt.Println("usage: attrs-check [--env file] [--crs EPSG:31984] [--name-field NOME_BAIRR] [--json] <attrs source> [layer source]")
}

func main() {
	var envFile, crs, nameField string
	var srcs []string
	asJSON := false
	for i := 1; i < len(os.Args); i++ {
		a := os.Args[i]
		switch {
		case a == "--env" && i+1 < len(os.Args):
			envFile = os.Args[i+1]
			i++
		case a == "--crs" && i+1 < len(os.Args):
			crs = os.Args[i+1]
			i++
		case a == "--name-field" && i+1 < len(os.Args):
			nameField = os.Args[i+1]
			i++
		case a == "--json":
			asJSON = true
		case a == "-h" || a == "--help":
			usage()
			return
		case strings.HasPrefix(a, "-"):
			fmt.Println("unknown option:", a)
			usage()
			os.Exit(2)
		default:
			srcs = append(srcs, a)
		}
	}
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	l := logger.Setup()
	defer logger.Close()
	if len(srcs) == 0 || len(srcs) > 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	f := datasource.NewFetcher()
	raw, err := f.Fetch(ctx, srcs[0])
	if err != nil {
		l.Error("check_read_error", "src", srcs[0], "err", err)
		os.Exit(1)
	}
	if err := attrs.Validate(raw); err != nil {
		fmt.Println("schema: FAIL")
		fmt.Println(err)
		os.Exit(1)
	}
	recs, err := attrs.Decode(raw)
	if err != nil {
		fmt.Println("decode: FAIL")
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("schema: ok (%d records)\n", len(recs))
	if len(srcs) == 1 {
		return
	}

	if crs == "" {
		crs = os.Getenv("LAYER_CRS")
	}
	if nameField == "" {
		nameField = os.Getenv("LAYER_NAME_FIELD")
	}
	lraw, err := f.Fetch(ctx, srcs[1])
	if err != nil {
		l.Error("check_read_error", "src", srcs[1], "err", err)
		os.Exit(1)
	}
	lyr, err := layer.Load(lraw, layer.Options{CRS: crs, NameField: nameField})
	if err != nil {
		fmt.Println("layer: FAIL")
		fmt.Println(err)
		os.Exit(1)
	}
	rep := viewer.CrossCheck(recs, lyr)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
	} else {
		printList("features without record", rep.FeaturesWithoutRecord)
		printList("records without feature", rep.RecordsWithoutFeature)
		printList("duplicate record names", rep.DuplicateRecords)
		if rep.UnnamedRecords > 0 {
			fmt.Printf("records without NOME_BAIRR: %d\n", rep.UnnamedRecords)
		}
	}
	if !rep.OK() {
		os.Exit(1)
	}
	fmt.Println("join keys: ok")
}

func printList(title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", title, len(names))
	for _, n := range names {
		fmt.Println("  " + n)
	}
}
