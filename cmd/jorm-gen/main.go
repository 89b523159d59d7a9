// Command jorm-gen reads table definitions from a live database and writes Go
// models whose tags map back onto the same tables.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shrek82/tablemap/config"
	"github.com/shrek82/tablemap/logger"
)

var (
	driverName = flag.String("driver", "sqlite3", "database driver (sqlite3, mysql, postgres)")
	dsn        = flag.String("dsn", "", "data source name")
	tableName  = flag.String("table", "", "table to generate; empty generates every table")
	pkgName    = flag.String("pkg", "models", "package name of the generated code")
	outDir     = flag.String("out", "./models", "output directory")
	overwrite  = flag.Bool("overwrite", false, "overwrite existing files")
	configPath = flag.String("config", "", "optional YAML or JSON config (tag key, log settings)")
)

func main() {
	flag.Parse()

	if *dsn == "" {
		fmt.Println("usage: jorm-gen -dsn <dsn> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Log.Level = "info"
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("done")
}

func run(cfg *config.Config, log logger.Logger) error {
	db, err := sql.Open(*driverName, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	intro, err := introspectorFor(*driverName)
	if err != nil {
		return err
	}

	var tables []string
	if *tableName != "" {
		tables = append(tables, *tableName)
	} else {
		tables, err = intro.tables(db)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, table := range tables {
		if err := generateModel(db, intro, cfg.Conventions.TagKey, table, log); err != nil {
			log.WithFields(map[string]any{"table": table}).Error("generate model: %v", err)
		}
	}
	return nil
}

func generateModel(db *sql.DB, intro introspector, tagKey, table string, log logger.Logger) error {
	columns, err := intro.columns(db, table)
	if err != nil {
		return err
	}

	fileName := filepath.Join(*outDir, strings.ToLower(table)+".go")
	if _, err := os.Stat(fileName); err == nil && !*overwrite {
		log.Warn("%s exists, skipping (use -overwrite to replace it)", fileName)
		return nil
	}

	src, err := renderModel(*pkgName, tagKey, table, columns)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fileName, src, 0644); err != nil {
		return err
	}

	log.Info("generated %s -> %s", table, fileName)
	return nil
}
