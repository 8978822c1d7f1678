package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quest-fees/app/config"
	"quest-fees/app/ledger"
	"quest-fees/app/server"
	"quest-fees/app/services"
)

func main() {
	cfg := config.Load()

	// Set global time zone so receipt dates follow the school's calendar
	time.Local = cfg.Location()
	log.Printf("Application time zone set to: %s", time.Local.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the fee sheet
	store, closeStore := config.InitStore(ctx, cfg)
	defer closeStore()

	registry := ledger.NewRegistry(store)
	if err := registry.Load(ctx); err != nil {
		log.Fatal("Failed to load fee sheet: ", err)
	}
	log.Printf("Loaded %d students", registry.Len())

	// Start background refresh
	schedulerDone := services.StartScheduler(ctx, registry, cfg.RefreshEvery)

	app := server.New(registry, ledger.NewLedger(registry), server.Options{
		School:         cfg.School,
		RequestTimeout: cfg.RequestTimeout,
		Now:            time.Now,
		AccessLog:      true,
	})

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	<-schedulerDone
}
