package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	DataDir               string
	CatalogFile           string
	SalesFile             string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	ReportCacheTTLSeconds int
	DefaultTaxPercent     decimal.Decimal
	LowStockThreshold     int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("REPORT_CACHE_TTL_SECONDS", "30"))
	if err != nil || ttl < 1 {
		ttl = 30
	}
	threshold, err := strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "10"))
	if err != nil || threshold < 1 {
		threshold = 10
	}
	tax, err := decimal.NewFromString(getEnv("DEFAULT_TAX_PERCENT", "5"))
	if err != nil || tax.IsNegative() {
		tax = decimal.NewFromInt(5)
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DataDir:               os.Getenv("DATA_DIR"),
		CatalogFile:           getEnv("CATALOG_FILE", "products.csv"),
		SalesFile:             getEnv("SALES_FILE", "daily_sales.csv"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		ReportCacheTTLSeconds: ttl,
		DefaultTaxPercent:     tax,
		LowStockThreshold:     threshold,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) CatalogPath() string {
	return filepath.Join(c.DataDir, c.CatalogFile)
}

func (c Config) SalesPath() string {
	return filepath.Join(c.DataDir, c.SalesFile)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
