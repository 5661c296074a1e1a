package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PriceChart/internal/chart"
	"PriceChart/internal/config"
	"PriceChart/internal/layout"
	"PriceChart/internal/loader"
	"PriceChart/internal/scheduler"
	"PriceChart/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PriceChart starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	src, closeSource, err := loader.New(loader.Options{
		Kind:       cfg.Data.Source,
		Path:       cfg.Data.Path,
		URL:        cfg.Data.URL,
		APIKey:     cfg.Data.APIKey,
		ProxyURL:   cfg.Proxy,
		SQLitePath: cfg.Data.SQLitePath,
		Symbol:     cfg.Data.Symbol,
	})
	if err != nil {
		log.Fatalf("[FATAL] init data source: %v", err)
	}
	defer closeSource()
	log.Printf("[INFO] data source: %s", src.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := server.NewHub()
	sched := scheduler.NewScheduler(ctx, src, hub)
	if err := sched.RunNow(); err != nil {
		// The page still serves; the next scheduled reload may succeed.
		log.Printf("[ERROR] initial load: %v", err)
	}
	if err := sched.RegisterReload(cfg.Data.ReloadCron); err != nil {
		log.Fatalf("[FATAL] register reload: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(server.Options{
		Addr:        cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
		Title:       cfg.Data.Symbol + " PRICE CHART",
		Size:        layout.Size{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
		Chart:       chart.Options{Margins: cfg.Chart.Margins, Location: loc},
	}, hub)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Println("[INFO] PriceChart is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Printf("[ERROR] http server: %v", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] PriceChart stopped")
}
