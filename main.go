package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/gmail"
	"github.com/mailsift/mailsift/session"
)

const settingsPath = "config/settings.json"

func main() {
	logFile, err := os.OpenFile("mailsift.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "mailsift",
	})
	logger.Info("application starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received, cancelling context")
		cancel()
	}()

	cfgManager, err := config.NewManager(settingsPath)
	if err != nil {
		logger.Fatal("failed to initialize config manager", "err", err)
	}
	settings := cfgManager.Get()

	client, err := gmail.NewClient(ctx, settings.CredentialsFile, settings.TokenFile, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gmail client, ensure credentials.json is present and valid", "err", err)
	}
	logger.Info("gmail client initialized")

	if err := session.Run(ctx, client, cfgManager, logger); err != nil {
		logger.Fatal("session ended with error", "err", err)
	}
	logger.Info("application exited")
}
