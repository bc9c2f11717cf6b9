package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"hbnb/internal/auth"
	"hbnb/internal/config"
	"hbnb/internal/domain"
	"hbnb/internal/repository/memory"
	"hbnb/internal/repository/sqlite"
	"hbnb/internal/service"
	"hbnb/internal/storage"
)

// app holds the wired services shared by the serve and admin commands.
type app struct {
	facade *service.Facade
	photos service.PhotoService
	db     *sql.DB
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildApp(ctx context.Context, cfg config.Config, logger *logrus.Logger, withStorage bool) (*app, error) {
	repos, db, err := buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{
		facade: service.NewFacade(repos, auth.NewBcryptHasher(0), logger),
		db:     db,
	}

	if withStorage {
		store, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("setup storage: %w", err)
		}
		a.photos = service.NewPhotoService(a.facade, store, service.PhotoConfig{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
			URLTTL:    15 * time.Minute,
		}, logger)
	}
	return a, nil
}

func buildRepositories(ctx context.Context, cfg config.Config) (service.Repositories, *sql.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return service.Repositories{
			Users:     memory.NewStore[*domain.User](),
			Places:    memory.NewStore[*domain.Place](),
			Amenities: memory.NewStore[*domain.Amenity](),
			Reviews:   memory.NewStore[*domain.Review](),
		}, nil, nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return service.Repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	users := sqlite.NewUserStore(db)
	places := sqlite.NewPlaceStore(db)
	amenities := sqlite.NewAmenityStore(db)
	reviews := sqlite.NewReviewStore(db)
	inits := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"user", users.Init},
		{"place", places.Init},
		{"amenity", amenities.Init},
		{"review", reviews.Init},
	}
	for _, step := range inits {
		if err := step.fn(ctx); err != nil {
			_ = db.Close()
			return service.Repositories{}, nil, fmt.Errorf("init %s repository: %w", step.name, err)
		}
	}

	return service.Repositories{
		Users:     users,
		Places:    places,
		Amenities: amenities,
		Reviews:   reviews,
		Tx:        sqlite.NewTransactor(db),
	}, db, nil
}

// buildStorage returns nil when no bucket is configured; photo endpoints then answer 503.
func buildStorage(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set, place photos disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
