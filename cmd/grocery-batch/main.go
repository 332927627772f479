package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NammaThalle/grocery-tracker/internal/cache"
	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/expense"
	"github.com/NammaThalle/grocery-tracker/internal/export"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
	"github.com/NammaThalle/grocery-tracker/internal/llm"
	"github.com/NammaThalle/grocery-tracker/internal/llm/gemini"
	"github.com/NammaThalle/grocery-tracker/internal/pipeline"
)

var imageMIMEs = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// printError prints to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of receipt images or saved responses (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		dateStr = flag.String("date", "", "fallback date YYYY-MM-DD for undated receipts (defaults to today)")
		raw     = flag.Bool("raw", false, "treat .txt/.json files as saved model responses and skip the model call")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "expenses.xlsx")
	}

	fallback := time.Now().UTC()
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			printError("Error: invalid --date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
		fallback = parsed
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	if !*raw && cfg.Model.APIKey == "" {
		printError("Error: GEMINI_API_KEY is required unless --raw is set\n")
		os.Exit(1)
	}

	responses, err := cache.Open(cfg.Cache.Path, logger)
	if err != nil {
		logger.Error("failed to open response cache", "error", err, "path", cfg.Cache.Path)
		os.Exit(1)
	}
	defer func() { _ = responses.Close() }()

	transcriber := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout,
	}, logger)

	extractor := extract.NewExtractor(logger)
	assembler := expense.NewAssembler(logger, cfg.Server.Workers)
	processor := pipeline.NewProcessor(logger, transcriber, extractor, assembler, responses, cfg.Model.Model)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("failed to read directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var rows []entity.ItemRow
	processed := 0
	failures := 0

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(*dir, e.Name())
		ext := strings.ToLower(filepath.Ext(e.Name()))

		var exp *entity.Expense
		var diags entity.Diagnostics
		var perr error

		switch {
		case *raw && (ext == ".txt" || ext == ".json"):
			data, rerr := os.ReadFile(path)
			if rerr != nil {
				logger.Error("failed to read file", "path", path, "error", rerr)
				failures++
				continue
			}
			exp, diags, perr = processor.ProcessRaw(ctx, string(data), fallback)
		case imageMIMEs[ext] != "":
			data, rerr := os.ReadFile(path)
			if rerr != nil {
				logger.Error("failed to read file", "path", path, "error", rerr)
				failures++
				continue
			}
			exp, diags, perr = processor.Process(ctx, llm.Request{
				Kind:      llm.KindReceiptImage,
				ImageData: data,
				ImageMIME: imageMIMEs[ext],
			}, fallback)
		default:
			logger.Info("skipping unsupported file", "path", path)
			continue
		}

		if perr != nil {
			logger.Error("failed to process file", "path", path, "error", perr)
			failures++
			continue
		}

		logger.Info("processed file",
			"path", path,
			"items", len(exp.Items),
			"dropped", diags.DroppedItems,
			"grand_total", exp.GrandTotal,
		)
		rows = append(rows, exp.Rows()...)
		processed++
	}

	xlsxBytes, err := export.BuildWorkbook(rows)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_processed", processed,
		"failures", failures,
		"rows", len(rows),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Rows exported: %d\n", len(rows))
	fmt.Printf("- Output: %s\n", *out)
}
