package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mizuki1229/Discord-gekou/internal/banflow"
	"github.com/mizuki1229/Discord-gekou/internal/bot"
	"github.com/mizuki1229/Discord-gekou/internal/commands"
	"github.com/mizuki1229/Discord-gekou/internal/config"
	"github.com/mizuki1229/Discord-gekou/internal/dispatcher"
	"github.com/mizuki1229/Discord-gekou/internal/gate"
	"github.com/mizuki1229/Discord-gekou/internal/logging"
	"github.com/mizuki1229/Discord-gekou/internal/notifier"
	"github.com/mizuki1229/Discord-gekou/internal/sentinel"
	"github.com/mizuki1229/Discord-gekou/internal/store"
	"github.com/mizuki1229/Discord-gekou/internal/voice"
)

func main() {
	godotenv.Load()

	cfg := config.LoadOrDefault("config.json")
	if cfg.Bot.Token == "" {
		fmt.Fprintln(os.Stderr, "DISCORD_TOKEN is not set")
		os.Exit(1)
	}

	if err := logging.InitGlobal(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Path, cfg.Logging.Echo); err != nil {
		fmt.Fprintf(os.Stderr, "logging init failed: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseGlobal()

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		logging.Error("store init failed: %v", err)
		os.Exit(1)
	}
	defer st.Close()
	logging.Info("config store ready at %s", cfg.Storage.Path)

	session, err := bot.New(cfg.Bot.Token)
	if err != nil {
		logging.Error("session init failed: %v", err)
		os.Exit(1)
	}

	pool := dispatcher.NewHTTPPool(cfg.Network.HTTPPoolSize)
	pool.Warmup(cfg.Network.APIBaseURL)
	exec := dispatcher.NewExecutor(pool, dispatcher.NewRateLimitMonitor(), cfg.Network.APIBaseURL, cfg.Bot.Token)

	platform := bot.NewPlatform(session, exec)

	alerts := notifier.New(platform)
	verifyGate := gate.New(st, platform)
	sent := sentinel.New(st, platform, alerts)
	bans := banflow.New(st, platform, platform)
	voiceMgr := voice.New(platform)

	session.SetupEventHandlers(sent, voiceMgr)

	if err := session.Connect(); err != nil {
		logging.Error("gateway connect failed: %v", err)
		os.Exit(1)
	}
	defer session.Close()

	if _, err := commands.Initialize(session, platform, st, verifyGate, bans, voiceMgr); err != nil {
		logging.Error("command registration failed: %v", err)
		os.Exit(1)
	}

	logging.Info("moderation engine running")

	waitForShutdown()
	logging.Info("shutdown complete")
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logging.Info("shutdown signal received")
}
