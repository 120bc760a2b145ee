package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"linkscout/internal/config"
	"linkscout/internal/domain"
	"linkscout/internal/index"
	"linkscout/internal/report"
	"linkscout/internal/scraper"
	"linkscout/internal/service"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var csvDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.StringVar(&csvDir, "csv-dir", "", "Directory to write CSV exports into (omit to skip CSV)")
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Usage: linkscout-export [--config=config.yaml] [--csv-dir=DIR] <article-url> <sitemap-url>")
		os.Exit(1)
	}
	pivotURL, sitemapURL := args[0], args[1]

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	fetcher := scraper.NewCollector(scraper.Config{
		TimeoutSecs: cfg.Scraper.TimeoutSecs,
		Parallelism: cfg.Scraper.Parallelism,
		DelayMS:     cfg.Scraper.DelayMS,
		UserAgent:   cfg.Scraper.UserAgent,
	}, logger)
	idx := index.New(index.Config{
		MaxFeatures: cfg.Index.MaxFeatures,
		MinDocFreq:  cfg.Index.MinDocFreq,
		MaxDocRatio: cfg.Index.MaxDocRatio,
	})
	analyzer := service.NewAnalyzer(fetcher, idx, service.Params{
		MinRelevance:       cfg.Analysis.MinRelevance,
		MaxResults:         cfg.Analysis.MaxResults,
		MaxPerSiloOutbound: cfg.Analysis.MaxPerSiloOutbound,
		MaxPerSiloInbound:  cfg.Analysis.MaxPerSiloInbound,
		ContentSimilarity:  cfg.Analysis.ContentSimilarityEnabled(),
	}, logger)

	rep, err := analyzer.Analyze(pivotURL, sitemapURL)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	fmt.Println(report.Summary(rep.Stats))
	report.RenderTable(os.Stdout, "Outbound Linking Opportunities", rep.Outbound)
	report.RenderTable(os.Stdout, "Inbound Linking Opportunities", rep.Inbound)

	if csvDir != "" {
		if err := exportCSV(csvDir, "outbound", rep.Outbound); err != nil {
			logger.Fatal("csv export failed", zap.Error(err))
		}
		if err := exportCSV(csvDir, "inbound", rep.Inbound); err != nil {
			logger.Fatal("csv export failed", zap.Error(err))
		}
	}
}

func exportCSV(dir, direction string, opps []domain.Opportunity) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, report.CSVFileName(direction, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	report.WriteCSV(f, opps)
	fmt.Printf("wrote %s\n", path)
	return nil
}
