package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"iot-scenario-porter/internal/adapters/input/cli"
	"iot-scenario-porter/internal/adapters/output/persistence"
	"iot-scenario-porter/internal/adapters/output/quasar"
	"iot-scenario-porter/internal/config"
	"iot-scenario-porter/internal/domain/service"
	"iot-scenario-porter/internal/logger"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	// Persistence
	fs := afero.NewOsFs()
	configRepo := persistence.NewJSONConfigRepository(fs, env.ConfigPath)
	docs := persistence.NewFileDocumentRepository(fs, "")

	cfg, err := config.Resolve(ctx, configRepo, env)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(cfg.LogLevel)
	logger.Init(logCfg)
	log := logger.NewLogger(logCfg)
	ctx = logger.ContextWithLogger(ctx, log)

	client := quasar.NewClient(log.With("component", "quasar"))
	client.Configure(cfg)

	porter := service.NewService(client, configRepo, docs, log)
	return cli.NewRootCmd(porter).ExecuteContext(ctx)
}
