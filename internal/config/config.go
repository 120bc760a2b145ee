package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScraperConfig tunes sitemap and page fetching.
type ScraperConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs"`
	Parallelism int    `yaml:"parallelism"`
	DelayMS     int    `yaml:"delay_ms"`
	UserAgent   string `yaml:"user_agent"`
}

// IndexConfig tunes the content similarity model.
type IndexConfig struct {
	MaxFeatures int     `yaml:"max_features"`
	MinDocFreq  int     `yaml:"min_doc_freq"`
	MaxDocRatio float64 `yaml:"max_doc_ratio"`
}

// AnalysisConfig holds the ranking thresholds and limits.
type AnalysisConfig struct {
	MinRelevance       float64 `yaml:"min_relevance"`
	MaxResults         int     `yaml:"max_results"`
	MaxPerSiloOutbound int     `yaml:"max_per_silo_outbound"`
	MaxPerSiloInbound  int     `yaml:"max_per_silo_inbound"`
	ContentSimilarity  *bool   `yaml:"content_similarity,omitempty"`
}

// ContentSimilarityEnabled defaults the toggle to true when unset.
func (a AnalysisConfig) ContentSimilarityEnabled() bool {
	return a.ContentSimilarity == nil || *a.ContentSimilarity
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Index    IndexConfig    `yaml:"index"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/linkscout/config.yaml.
// If neither exists, it writes defaults to ~/.config/linkscout/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linkscout", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Scraper:  ScraperConfig{TimeoutSecs: 5, Parallelism: 4, DelayMS: 100},
		Index:    IndexConfig{MaxFeatures: 500, MinDocFreq: 2, MaxDocRatio: 0.8},
		Analysis: AnalysisConfig{MinRelevance: 30, MaxResults: 20, MaxPerSiloOutbound: 2, MaxPerSiloInbound: 1},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Scraper.TimeoutSecs == 0 {
		cfg.Scraper.TimeoutSecs = 5
	}
	if cfg.Scraper.Parallelism == 0 {
		cfg.Scraper.Parallelism = 4
	}
	if cfg.Index.MaxFeatures == 0 {
		cfg.Index.MaxFeatures = 500
	}
	if cfg.Index.MinDocFreq == 0 {
		cfg.Index.MinDocFreq = 2
	}
	if cfg.Index.MaxDocRatio == 0 {
		cfg.Index.MaxDocRatio = 0.8
	}
	if cfg.Analysis.MinRelevance == 0 {
		cfg.Analysis.MinRelevance = 30
	}
	if cfg.Analysis.MaxResults == 0 {
		cfg.Analysis.MaxResults = 20
	}
	if cfg.Analysis.MaxPerSiloOutbound == 0 {
		cfg.Analysis.MaxPerSiloOutbound = 2
	}
	if cfg.Analysis.MaxPerSiloInbound == 0 {
		cfg.Analysis.MaxPerSiloInbound = 1
	}
}
