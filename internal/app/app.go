// Package app wires configuration, storage, repositories and services into a
// runnable gateway.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/authz"
	"object-gateway/internal/buckets"
	"object-gateway/internal/config"
	"object-gateway/internal/objects"
	"object-gateway/internal/perms"
	"object-gateway/internal/repository"
	"object-gateway/internal/repository/postgres"
	"object-gateway/internal/storage"
	transport "object-gateway/internal/transport/echo"
	"object-gateway/internal/version"
	"object-gateway/pkg/logger"

	// Registers the s3-compatible providers.
	_ "object-gateway/internal/storage/s3"
)

type Service struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *postgres.DB
	server *transport.Server
}

// New assembles the full gateway. The authentication mode is resolved once
// here and never re-derived per request.
func New(cfg *config.Config) (*Service, error) {
	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	mode := auth.ResolveMode(cfg.BasicAuth.Enabled, cfg.OIDC.Enabled)
	log.Info("authentication mode resolved", zap.String("mode", string(mode)))

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	bucketRepo := postgres.NewBucketRepository(db)
	objectRepo := postgres.NewObjectRepository(db)
	versionRepo := postgres.NewVersionRepository(db)
	grantRepo := postgres.NewGrantRepository(db)

	provider, err := storage.New(cfg.Storage.Provider, storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build storage provider: %w", err)
	}

	resolver := auth.NewResolver(cfg.OIDC.IdentityKeys)
	verifier := auth.NewTokenVerifier(cfg.OIDC.JWTSecret)
	authMiddleware := auth.NewMiddleware(verifier, cfg.BasicAuth)

	// The permission relations are enforced only when configured; the
	// metadata ledger always runs.
	var enforcedGrants repository.GrantRepository
	if cfg.Database.Enabled {
		enforcedGrants = grantRepo
	}
	engine := authz.NewEngine(mode, enforcedGrants, log)

	permSvc := perms.NewService(grantRepo, userRepo, log)
	reconciler := version.NewReconciler(versionRepo, objectRepo, log)
	objectSvc := objects.NewService(provider, objectRepo, reconciler, permSvc, cfg.Storage.KeyPrefix, log)
	bucketSvc := buckets.NewService(provider, bucketRepo, permSvc, log)

	server := transport.NewServer(&transport.ServerDependencies{
		Config:         cfg,
		Mode:           mode,
		Resolver:       resolver,
		AuthMiddleware: authMiddleware,
		Engine:         engine,
		Buckets:        bucketSvc,
		Objects:        objectSvc,
		Perms:          permSvc,
		BucketRepo:     bucketRepo,
		ObjectRepo:     objectRepo,
		Log:            log,
	})

	return &Service{cfg: cfg, log: log, db: db, server: server}, nil
}

func (s *Service) Log() *zap.Logger {
	return s.log
}

func (s *Service) Start() error {
	s.log.Info("starting http server", zap.String("port", s.cfg.Server.Port))
	return s.server.Start(":" + s.cfg.Server.Port)
}

func (s *Service) Shutdown(ctx context.Context) error {
	defer s.db.Close()
	return s.server.Shutdown(ctx)
}
