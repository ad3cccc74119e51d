package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridge"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/mcp"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcp-videoteam-server version %s\n", version)
		os.Exit(0)
	}

	// Stdout carries the MCP protocol; logs go to stderr.
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting MCP Video Team Server")

	br, err := bridge.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create bridge")
	}
	defer br.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := br.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to establish dashboard session")
	}

	server, err := mcp.NewServer(cfg, br, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	case err := <-errChan:
		logger.WithError(err).Error("Server error")
		cancel()
	}

	logger.Info("Shutting down MCP Video Team Server")
}
