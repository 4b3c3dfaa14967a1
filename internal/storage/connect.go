package storage

import (
	"context"

	"skillswap/backend/internal/config"

	"go.uber.org/zap"
)

// Connect opens the configured remote. Any failure leaves the caller with
// Offline so the app keeps running on the local mirror alone.
func Connect(ctx context.Context, cfg config.RemoteConfig, log *zap.Logger) Remote {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.RemoteRedis:
		rdb, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, running on local mirror only", zap.Error(err))
			return Offline{}
		}
		log.Info("redis remote connected", zap.String("addr", cfg.RedisAddr))
		return NewRedisRemote(rdb, cfg.RedisPrefix)

	case config.RemotePostgres:
		db, err := OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Warn("postgres unavailable, running on local mirror only", zap.Error(err))
			return Offline{}
		}
		remote, err := NewSQLRemote(db)
		if err != nil {
			log.Warn("postgres migration failed, running on local mirror only", zap.Error(err))
			return Offline{}
		}
		log.Info("postgres remote connected")
		return remote

	default:
		log.Info("no remote configured, running on local mirror only")
		return Offline{}
	}
}
