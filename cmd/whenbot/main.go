package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"whenbot/internal/availability"
	"whenbot/internal/bot"
	"whenbot/internal/classify"
	"whenbot/internal/config"
	"whenbot/internal/effectors"
	"whenbot/internal/extract"
	"whenbot/internal/health"
	"whenbot/internal/logging"
	"whenbot/internal/mentions"
	"whenbot/internal/senses"
	"whenbot/internal/timeparse"
	"whenbot/internal/types"
	"whenbot/internal/view"
)

func main() {
	log.Println("whenbot - group availability calendar")
	log.Println("=====================================")

	// Load .env file (optional - won't error if missing)
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, using environment variables")
	} else {
		log.Println("[config] Loaded .env file")
	}

	cfg, err := config.Load(os.Getenv("WHENBOT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN environment variable required")
	}
	logging.SetDebug(cfg.Debug)
	types.BandStart = cfg.BandStart
	types.BandEnd = cfg.BandEnd

	// Core: facts, mentions, extraction.
	index := availability.NewIndex()
	ledger := mentions.NewLedger()
	extractor := extract.New(classify.New(), timeparse.New(), index, ledger)

	// Transport. The sense owns the session; the renderer shares it.
	sense, err := senses.NewDiscordSense(senses.DiscordConfig{
		Token:   cfg.Token,
		AppID:   cfg.AppID,
		GuildID: cfg.GuildID,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create Discord sense: %v", err)
	}
	renderer := effectors.NewDiscordRenderer(sense.Session())

	// Views redraw through the renderer; names resolve through the sense.
	builder := view.NewBuilder(index, ledger, sense.DisplayName)
	views := view.NewManager(builder, renderer.Redraw)

	router := bot.NewRouter(extractor, index, views, renderer, sense, cfg.HistoryDays)
	sense.SetHandler(router)

	if err := sense.Start(); err != nil {
		log.Fatalf("Failed to start Discord sense: %v", err)
	}

	monitor, err := health.NewMonitor()
	if err != nil {
		log.Printf("[main] Health monitor unavailable: %v", err)
	} else {
		monitor.Start()
	}

	log.Println("[main] All subsystems started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[main] Shutting down...")
	if monitor != nil {
		monitor.Stop()
	}
	if err := sense.Stop(); err != nil {
		log.Printf("[main] Discord shutdown error: %v", err)
	}
	log.Println("[main] Goodbye!")
}
