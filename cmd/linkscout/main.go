package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"linkscout/internal/config"
	"linkscout/internal/index"
	"linkscout/internal/report"
	"linkscout/internal/scraper"
	"linkscout/internal/service"
	"linkscout/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/linkscout/config.yaml if not provided)")
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Usage: linkscout [--config=config.yaml] <article-url> <sitemap-url>")
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

	analyzer := assembleAnalyzer(cfg, logger)
	rep, err := analyzer.Analyze(pivotURL, sitemapURL)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	m := tui.New(rep, report.Summary(rep.Stats))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func assembleAnalyzer(cfg *config.AppConfig, logger *zap.Logger) *service.Analyzer {
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

	return service.NewAnalyzer(fetcher, idx, service.Params{
		MinRelevance:       cfg.Analysis.MinRelevance,
		MaxResults:         cfg.Analysis.MaxResults,
		MaxPerSiloOutbound: cfg.Analysis.MaxPerSiloOutbound,
		MaxPerSiloInbound:  cfg.Analysis.MaxPerSiloInbound,
		ContentSimilarity:  cfg.Analysis.ContentSimilarityEnabled(),
	}, logger)
}
