package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/backend/internal/api/handler"
	"skillswap/backend/internal/config"
	"skillswap/backend/internal/identity"
	"skillswap/backend/internal/localization"
	"skillswap/backend/internal/logger"
	"skillswap/backend/internal/notify"
	"skillswap/backend/internal/skillhub"
	"skillswap/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupNotifier(cfg *config.Config, texts *localization.Localizer, log *zap.Logger) notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.MailConfig.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.MailConfig.Host, cfg.MailConfig.Port, cfg.MailConfig.Username, cfg.MailConfig.Password, cfg.Sender, cfg.To, cfg.NotifyLang, texts,
		))
	}
	if cfg.TelegramConfig.Enabled() {
		tg, err := notify.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.NotifyLang, texts)
		if err != nil {
			log.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	return notify.Combine(notifiers...)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Production: cfg.IsProduction()})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mirror, err := storage.OpenMirror(cfg.DataFile, logger.Component(zl, "mirror"))
	if err != nil {
		zl.Fatal("failed to open local mirror", zap.String("path", cfg.DataFile), zap.Error(err))
	}
	zl.Info("local mirror opened", zap.String("path", mirror.Path()))

	remote := storage.Connect(ctx, cfg.RemoteConfig, logger.Component(zl, "remote"))
	defer remote.Close()

	texts := localization.Default()
	if cfg.LocaleDir != "" {
		if texts, err = localization.NewLocalizer(cfg.LocaleDir); err != nil {
			zl.Fatal("failed to load locales", zap.String("dir", cfg.LocaleDir), zap.Error(err))
		}
	}

	svc := skillhub.NewService(mirror, remote, cfg.AppConfig,
		skillhub.WithLogger(logger.Component(zl, "skillhub")),
		skillhub.WithNotifier(setupNotifier(cfg, texts, logger.Component(zl, "notify"))),
		skillhub.WithReplyTo(cfg.ReplyTo),
	)
	if err := svc.Load(ctx); err != nil {
		zl.Error("loading skills failed", zap.Error(err))
	}
	if cfg.SeedSampleSkills {
		if n, err := svc.SeedSamples(ctx, config.SampleSkills); err != nil {
			zl.Error("seeding sample skills failed", zap.Error(err))
		} else if n > 0 {
			zl.Info("seeded sample skills", zap.Int("count", n))
		}
	}

	feed := skillhub.NewFeed(ctx, svc, remote, cfg.PollInterval, logger.Component(zl, "feed"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handler.NewHandler(svc, feed,
		identity.NewRegistry(cfg.SessionConfig.TTL),
		identity.NewTokens(cfg.Secret, cfg.Issuer, cfg.SessionConfig.TTL),
		identity.NewGenerator(),
		logger.Component(zl, "http"),
	)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        handler.NewRouter(h),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zl.Warn("http shutdown", zap.Error(err))
		}
	}()

	zl.Info("starting SkillSwap backend", zap.String("addr", cfg.HTTPAddr), zap.String("remote", cfg.Backend))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("http server failed", zap.Error(err))
	}
}
