package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/credlens/credlens/internal/analyze"
	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/engine"
	"github.com/credlens/credlens/internal/gateway"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/worker"
)

// loadConfig layers the viper sources (flags > env > config file) over the
// built-in defaults
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Similarity.APIKey == "" {
		cfg.Similarity.APIKey = key
	}
	return cfg, nil
}

// buildEngine assembles the engine from configuration: response cache,
// rate limiter, gateway client and the optional similarity provider
func buildEngine(cfg model.Config) (*engine.Engine, error) {
	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		memory := cache.NewMemory(cfg.Cache.TTL)
		if cfg.Cache.Dir != "" {
			responseCache = cache.NewLayered(memory, cache.NewDisk(cfg.Cache.Dir, cfg.Cache.TTL))
		} else {
			responseCache = memory
		}
	}

	limiter := worker.NewLimiter(cfg.Gateway.RatePerSec, cfg.Gateway.Burst)
	client := gateway.NewClient(cfg.Gateway, limiter, responseCache, cfg.Cache.TTL)

	similarity, err := analyze.NewSimilarityProvider(cfg.Similarity)
	if err != nil {
		return nil, fmt.Errorf("similarity provider: %w", err)
	}

	return engine.New(cfg, client, similarity), nil
}

// profileFile is the on-disk schema shared by assess (single object) and
// batch (one object per JSONL line)
type profileFile struct {
	Subject     string         `json:"subject" yaml:"subject"`
	Explanation string         `json:"explanation" yaml:"explanation"`
	Attributes  map[string]any `json:"attributes" yaml:"attributes"`
}

func (p profileFile) toItem(fallbackSubject string) (engine.BatchItem, error) {
	profile, err := model.ProfileFromMap(p.Attributes)
	if err != nil {
		return engine.BatchItem{}, err
	}
	subject := p.Subject
	if subject == "" {
		subject = fallbackSubject
	}
	return engine.BatchItem{
		Subject:     subject,
		Profile:     profile,
		Explanation: p.Explanation,
	}, nil
}

// loadProfile reads a single applicant file, JSON or YAML by extension
func loadProfile(path string) (engine.BatchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.BatchItem{}, fmt.Errorf("read profile: %w", err)
	}

	var pf profileFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pf)
	default:
		err = json.Unmarshal(data, &pf)
	}
	if err != nil {
		return engine.BatchItem{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return pf.toItem(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// loadProfileLines reads a JSONL corpus, one applicant object per line
func loadProfileLines(path string) ([]engine.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	var items []engine.BatchItem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var pf profileFile
		if err := json.Unmarshal([]byte(line), &pf); err != nil {
			return nil, fmt.Errorf("parse corpus line %d: %w", lineNo, err)
		}
		item, err := pf.toItem(fmt.Sprintf("applicant-%03d", lineNo))
		if err != nil {
			return nil, fmt.Errorf("corpus line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return items, nil
}
