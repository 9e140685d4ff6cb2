// Package main is the kode CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/assembler"
	"github.com/hyperjump/kode/internal/balancer"
	"github.com/hyperjump/kode/internal/catalog"
	"github.com/hyperjump/kode/internal/config"
	"github.com/hyperjump/kode/internal/expander"
	"github.com/hyperjump/kode/internal/matcher"
	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/internal/recommend"
	"github.com/hyperjump/kode/internal/rules"
	"github.com/hyperjump/kode/internal/server"
	"github.com/hyperjump/kode/internal/watcher"
	"github.com/hyperjump/kode/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kode/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "recommend":
		runRecommend()
	case "seed":
		runSeed()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kode version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components bundles the initialized pipeline and its store.
type components struct {
	Store  catalog.Store
	Engine *recommend.Engine
}

func (c *components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// newChatModel builds the Ark chat model for keyword expansion. Returns nil
// when no API key is configured or initialization fails; the expander then
// always uses its fallback bundle.
func newChatModel(cfg *config.ExpanderConfig, logger *zap.Logger) model.BaseChatModel {
	if cfg.APIKey == "" || cfg.Model == "" {
		logger.Info("no chat model configured, keyword expansion will use token splitting")
		return nil
	}
	cm, err := ark.NewChatModel(context.Background(), &ark.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Error("init ark chat model failed", zap.Error(err))
		return nil
	}
	logger.Info("ark chat model initialized", zap.String("model", cfg.Model))
	return cm
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	store, err := catalog.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	ruleTables := rules.Default()
	weights := &matcher.Weights{
		RelevanceFloor: cfg.Recommend.RelevanceFloor,
		RelaxedFloor:   cfg.Recommend.RelaxedFloor,
		MaxCandidates:  cfg.Recommend.MaxCandidates,
	}
	exp := expander.New(
		newChatModel(&cfg.Expander, logger),
		ruleTables,
		time.Duration(cfg.Expander.TimeoutSeconds)*time.Second,
		cfg.Expander.MaxRetries,
		logger,
	)
	m := matcher.New(store, ruleTables, weights, logger)
	b := balancer.New(m, cfg.Recommend.BalanceFill, logger)
	a := assembler.New(ruleTables, &assembler.Config{
		PairLimit:      cfg.Recommend.PairLimit,
		StatementFloor: cfg.Recommend.StatementFloor,
	}, logger)
	engine := recommend.NewEngine(exp, m, b, a, &recommend.Options{
		DefaultCount:  cfg.Recommend.DefaultCount,
		MaxCount:      cfg.Recommend.MaxCount,
		MaxCandidates: cfg.Recommend.MaxCandidates,
	}, logger)

	return &components{Store: store, Engine: engine}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.SeedPath != "" {
		count, err := catalog.Seed(context.Background(), comps.Store, cfg.Catalog.SeedPath)
		if err != nil {
			logger.Warn("catalog seed failed", zap.String("path", cfg.Catalog.SeedPath), zap.Error(err))
		} else {
			logger.Info("catalog seeded", zap.Int("products", count))
		}
		if cfg.Catalog.Watch {
			watchOpts := []watcher.Option{}
			if debugMode {
				watchOpts = append(watchOpts, watcher.WithLogger(logger))
			}
			seedWatch := watcher.New(cfg.Catalog.SeedPath, func(path string) {
				count, err := catalog.Seed(context.Background(), comps.Store, path)
				if err != nil {
					logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
					return
				}
				logger.Info("catalog reloaded", zap.Int("products", count))
			}, watchOpts...)
			if err := seedWatch.Start(watchCtx); err != nil {
				logger.Warn("seed watcher failed to start", zap.Error(err))
			}
		}
	}

	srv := server.NewServer(comps.Engine, comps.Store, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	count := fs.Int("count", 3, "desired number of outfits")
	_ = fs.Parse(os.Args[2:])

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		fmt.Println("Usage: kode recommend [flags] <message>")
		fs.PrintDefaults()
		os.Exit(1)
	}

	body, _ := json.Marshal(models.RecommendRequest{Message: message, Count: *count})
	resp, err := http.Post(*serverURL+"/api/v1/recommend", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result models.RecommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Printf("Failed to decode response: %v\n", err)
		os.Exit(1)
	}
	printOutfits(&result)
}

func printOutfits(result *models.RecommendResponse) {
	if result.Total == 0 {
		fmt.Println("No outfits found.")
		return
	}
	for i, outfit := range result.Outfits {
		fmt.Printf("%d. %s [%s] score=%.2f total=%.2f\n", i+1, outfit.Title, outfit.Type, outfit.Score, outfit.TotalPrice)
		for _, item := range outfit.Items {
			fmt.Printf("   - %s %s (%.2f)\n", item.Product.SKU, item.Product.Title, item.Product.Price)
		}
		fmt.Printf("   %s\n", outfit.Rationale)
	}
	if result.Degraded {
		fmt.Println("(keyword expansion degraded to token splitting)")
	}
}

func runSeed() {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	file := fs.String("file", "", "seed file path (.json or .xlsx); defaults to catalog.seed_path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	seedPath := *file
	if seedPath == "" {
		seedPath = cfg.Catalog.SeedPath
	}
	if seedPath == "" {
		fmt.Println("No seed file: pass --file or set catalog.seed_path")
		os.Exit(1)
	}

	store, err := catalog.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	count, err := catalog.Seed(context.Background(), store, seedPath)
	if err != nil {
		fmt.Printf("Seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d products from %s\n", count, seedPath)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/status")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Printf("Failed to decode response: %v\n", err)
		os.Exit(1)
	}
	for k, v := range status {
		fmt.Printf("%s: %v\n", k, v)
	}
}

func printUsage() {
	fmt.Println(`kode - outfit recommendations from a product catalog

Usage:
  kode server [--config path] [--debug]     start the HTTP server
  kode recommend [--server url] [--count n] <message>
                                            request outfits for a message
  kode seed [--config path] [--file path]   load a product seed file
  kode status [--server url]                show server status
  kode version                              print version
  kode help                                 show this help`)
}
