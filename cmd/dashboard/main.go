package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vitos/crypto_market_dash/internal/infrastructure/coingecko"
	"github.com/vitos/crypto_market_dash/internal/infrastructure/logger"
	"github.com/vitos/crypto_market_dash/internal/usecase"
	"github.com/vitos/crypto_market_dash/internal/web"
)

type Config struct {
	API struct {
		BaseURL   string `yaml:"base_url"`
		TimeoutMs int    `yaml:"timeout_ms"`
	} `yaml:"api"`
	Defaults struct {
		Currency string `yaml:"currency"`
		PageSize int    `yaml:"page_size"`
	} `yaml:"defaults"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// Optional .env for the CoinGecko API key; missing file is fine.
	_ = godotenv.Load()

	// 1. Load Config
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init CoinGecko client
	client := coingecko.NewClient(
		cfg.API.BaseURL,
		os.Getenv("COINGECKO_API_KEY"),
		time.Duration(cfg.API.TimeoutMs)*time.Millisecond,
		log,
	)

	// 4. Init Service
	market := usecase.NewMarketService(client, log)

	// 5. Init Web Server
	port := cfg.Server.Port
	if port == 0 {
		port = 8080 // Default
	}
	currency := cfg.Defaults.Currency
	if currency == "" {
		currency = "usd"
	}
	pageSize := cfg.Defaults.PageSize
	if pageSize == 0 {
		pageSize = 50
	}

	server := web.NewServer(port, market, currency, pageSize, log)

	// 6. Start Server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
