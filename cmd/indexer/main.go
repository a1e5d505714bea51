package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/araffali/product-indexer/api"
	"github.com/araffali/product-indexer/config"
	"github.com/araffali/product-indexer/internal/engine"
	"github.com/araffali/product-indexer/internal/jobs"
	"github.com/araffali/product-indexer/internal/logging"
	"github.com/araffali/product-indexer/internal/pipeline"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to YAML config file")
		input      = flag.String("input", "", "Path to the JSONL product corpus (overrides config)")
		output     = flag.String("output", "", "Directory to write the index files (overrides config)")
		serve      = flag.Bool("serve", false, "Run the HTTP API instead of a one-shot build")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Product Indexer - builds search index structures from an e-commerce product corpus\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --input products.jsonl --output ./index_data   # One-shot build\n", os.Args[0])
		fmt.Printf("  %s --config indexer.yaml --serve                  # Run the build API\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Product Indexer v1.0.0\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *output != "" {
		cfg.Output.Dir = *output
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var metrics *pipeline.Metrics
	if cfg.Metrics.Enabled {
		metrics = pipeline.NewMetrics(prometheus.DefaultRegisterer)
	}

	jobManager := jobs.NewManager(cfg.Jobs.MaxWorkers, logger)
	defer jobManager.Stop()

	eng := engine.New(cfg.Output.Dir, logger, metrics, jobManager)

	if !*serve {
		result, err := eng.BuildFromFile(cfg.Input.Path)
		if err != nil {
			logger.Error("build failed", "error", err)
			os.Exit(1)
		}
		for _, diag := range result.Diagnostics {
			logger.Warn("malformed record", "line", diag.Line, "error", diag.Error)
		}
		logger.Info("all indexes built and saved",
			"output", cfg.Output.Dir,
			"documents_indexed", result.DocumentsIndexed,
		)
		return
	}

	router := gin.Default()
	api.SetupRoutes(router, eng, jobManager, cfg.Metrics.Enabled)

	logger.Info("starting server", "port", cfg.Server.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
