package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/campus-gallery/internal/config"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("Configuration load failed:", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("Server creation failed:", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("Server start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("Shutdown failed:", err)
	}

	log.Println("Server stopped gracefully")
}
