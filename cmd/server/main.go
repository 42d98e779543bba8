package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/Starman965/mongoose-sub000/internal/config"
	"github.com/Starman965/mongoose-sub000/internal/mock"
	"github.com/Starman965/mongoose-sub000/internal/store"
	"github.com/Starman965/mongoose-sub000/internal/ws"
)

func main() {
	mockMode := flag.Bool("mock", false, "Seed demo achievements and generate random matches")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker, err := achievement.NewTracker(ctx, st)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	broadcaster := ws.NewBroadcaster(tracker)
	tracker.OnResult(broadcaster.BroadcastResult)

	server := ws.NewServer(tracker, st, broadcaster, cfg.Server.AllowedOrigins, cfg.Server.AuthToken)

	if *mockMode || cfg.Mock.Enabled {
		log.Println("Starting in mock mode")
		gen := mock.NewGenerator(tracker, cfg.Squad, cfg.Mock.MatchInterval)
		gen.Start(ctx)
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		st.Close()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store.Backend == "sqlite" {
		return store.OpenSQLite(cfg.Store.Path)
	}
	return store.NewFileStore(cfg.Store.Dir), nil
}
