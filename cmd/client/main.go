package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/worldmesh/worldmesh/internal/core/config"
	"github.com/worldmesh/worldmesh/internal/core/domain"
	"github.com/worldmesh/worldmesh/internal/core/entity"
	"github.com/worldmesh/worldmesh/internal/core/observability/log"
)

func main() {
	var (
		configPath = flag.String("config", "worldmesh.yaml", "path to the persisted settings file")
		domainURL  = flag.String("domain", "", "domain server to connect to (overrides the persisted URL)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := log.LevelInfo
	if *verbose {
		level = log.LevelDebug
	}
	logger := log.New(level)

	store, err := config.Open(*configPath)
	if err != nil {
		logger.Fatal("failed to open settings store", log.Error(err))
	}

	manager := domain.NewManager(store, logger)
	dispatcher := entity.NewDispatcher(entity.DefaultRegistry(), logger)

	manager.OnEntityData(func(data []byte) {
		rec, err := entity.DecodeRecord(data)
		if err != nil {
			logger.Warn("dropping malformed entity frame", log.Error(err))
			return
		}
		if _, err = dispatcher.Dispatch(rec); err != nil {
			logger.Warn("entity dispatch failed", log.Error(err))
		}
	})

	sub := manager.OnStateChange().Connect(func(ch domain.StateChange) {
		logger.Info("domain state",
			log.String("state", ch.State),
			log.String("info", ch.Info))
	})
	defer sub.Disconnect()

	target := *domainURL
	if target == "" {
		target = store.GetItemDefault(config.KeyDomainURL, config.UnknownValue)
	}
	if target == config.UnknownValue {
		logger.Fatal("no domain URL configured; pass -domain")
	}

	if err = manager.Connect(target); err != nil {
		logger.Fatal("connect failed", log.Error(err))
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	<-stopCh

	if err = manager.Disconnect(); err != nil {
		logger.Error("disconnect failed", log.Error(err))
	}
}
