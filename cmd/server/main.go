package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smartretail/backend/internal/cache"
	"smartretail/backend/internal/config"
	"smartretail/backend/internal/domain"
	"smartretail/backend/internal/httpapi"
	"smartretail/backend/internal/payment"
	"smartretail/backend/internal/report"
	"smartretail/backend/internal/service"
	"smartretail/backend/internal/store"
	"smartretail/backend/internal/store/csvfile"
	"smartretail/backend/internal/store/memory"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var catalogStore store.CatalogStore
	var salesStore store.SalesStore
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
		catalogStore = csvfile.NewCatalogStore(cfg.CatalogPath())
		salesStore = csvfile.NewSalesStore(cfg.SalesPath())
		log.Printf("store: csv files in %s", cfg.DataDir)
	} else {
		mem := memory.NewSeeded()
		catalogStore = mem
		salesStore = mem
		log.Println("store: in-memory (set DATA_DIR for durable files)")
	}

	inv, err := bootstrapCatalog(ctx, catalogStore)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	log.Printf("catalog: %d products", inv.Len())

	reportCache := cache.ReportCache(cache.NoopReportCache{})
	closers := make([]func() error, 0, 1)
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			reportCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	processor := payment.NewProcessor(payment.SimulatedGateway{})
	reports := report.NewAggregator(salesStore, reportCache, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)
	svc := service.New(inv, catalogStore, salesStore, processor, reports, cfg.DefaultTaxPercent, cfg.LowStockThreshold)
	api := httpapi.New(svc, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// bootstrapCatalog loads the persisted catalog, seeding and saving the
// default one on first run so the operator never starts with nothing.
func bootstrapCatalog(ctx context.Context, catalogStore store.CatalogStore) (*domain.Inventory, error) {
	inv, err := catalogStore.Load(ctx)
	if err != nil {
		return nil, err
	}
	if inv.Len() > 0 {
		return inv, nil
	}

	inv = memory.DefaultCatalog()
	if err := catalogStore.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
