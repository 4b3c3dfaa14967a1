package main

import (
	"context"
	"encoding/json"
	"fmt"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/logger"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/skillhub"
	"skillswap/backend/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// adminApp is the service the commands run against, built once per
// invocation from the same configuration the server uses.
type adminApp struct {
	dataFile string
	verbose  bool

	svc    *skillhub.Service
	remote storage.Remote
	log    *zap.Logger
}

func (a *adminApp) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if a.dataFile != "" {
		cfg.DataFile = a.dataFile
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	if a.log, err = logger.New(logger.Options{Level: level}); err != nil {
		return err
	}

	mirror, err := storage.OpenMirror(cfg.DataFile, logger.Component(a.log, "mirror"))
	if err != nil {
		return err
	}
	a.remote = storage.Connect(ctx, cfg.RemoteConfig, logger.Component(a.log, "remote"))

	// The CLI never notifies: requests are not created from here.
	a.svc = skillhub.NewService(mirror, a.remote, cfg.AppConfig,
		skillhub.WithLogger(logger.Component(a.log, "skillhub")),
		skillhub.WithReplyTo(cfg.ReplyTo),
	)
	return nil
}

func (a *adminApp) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.remote != nil {
		return a.remote.Close()
	}
	return nil
}

func (a *adminApp) seed(ctx context.Context) (int, error) {
	return a.svc.SeedSamples(ctx, config.SampleSkills)
}

func (a *adminApp) print(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSkill(owner, title, description string) models.NewSkill {
	return models.NewSkill{Title: title, Description: description, Owner: owner}
}
