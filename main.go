package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"eventfinder/config"
	"eventfinder/controllers"
	"eventfinder/services"
	"eventfinder/utils"
)

func main() {
	cfgPath := flag.String("config", "config.yml", "Path to YAML config file")
	port := flag.String("port", "", "Listen port, overrides server.listen_address")
	enableDiscord := flag.Bool("discord", false, "Start the Discord bot (also enabled by discord.enabled)")
	flag.Parse()

	if err := utils.LoadEnvWithFallback(); err != nil {
		log.Printf("Warning: %v", err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	addr := cfg.Server.ListenAddress
	if p := *port; p != "" {
		addr = p
	} else if p := os.Getenv("PORT"); p != "" {
		addr = p
	}
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	log.Printf("Application starting up...")

	// A missing key leaves the client nil; searches then report the model
	// as unavailable instead of the process exiting.
	var client services.ModelClient
	gemini, err := services.NewGeminiService(context.Background(), cfg.Model.APIKey(), cfg.Model.Name, !cfg.Model.DisableWebSearch)
	if err != nil {
		log.Printf("CRITICAL ERROR during startup: %v (checked %s)", err, cfg.Model.APIKeyEnv)
	} else {
		client = gemini
	}
	modelTimeout := cfg.ModelCallTimeout()
	log.Printf("Model calls time out after %s", modelTimeout)

	metrics := services.NewMetrics()
	finder := services.NewEventFinder(client, services.EventFinderOptions{
		DefaultLocation:      cfg.Search.DefaultLocation,
		DefaultTimeframeDays: cfg.Search.DefaultTimeframeDays,
		Timeout:              modelTimeout,
		Metrics:              metrics,
	})

	discordOn := *enableDiscord || cfg.Discord.Enabled
	var discord *services.DiscordService
	if discordOn {
		discord = services.NewDiscordService(finder, cfg.Discord.Token(), cfg.Discord.CommandPrefix)
	}

	controller := controllers.NewController(finder, discord, cfg.Web.ViewsDir)

	handler := controllers.NewRouter(controller, controllers.RouterOptions{
		Metrics:        metrics.Handler(),
		StaticDir:      cfg.Web.StaticDir,
		AllowedOrigins: cfg.Web.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if err := controller.StartServices(discordOn); err != nil {
		log.Printf("Continuing without Discord: %v", err)
	}

	go func() {
		log.Printf("Local Event Finder listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Application shutting down...")
	if err := controller.StopServices(); err != nil {
		log.Printf("Error stopping services: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
