package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hbnb/internal/domain"
	"hbnb/internal/policy"
	"hbnb/internal/storage"
)

// ErrStorageNotConfigured is returned by photo operations when no bucket is set up.
var ErrStorageNotConfigured = errors.New("photo storage is not configured")

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Photo struct {
	Key          string     `json:"key"`
	URL          string     `json:"url"`
	Size         int64      `json:"size"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

type PhotoService interface {
	Upload(ctx context.Context, placeID string, contentType string, body io.Reader, requester domain.Identity) (Photo, error)
	List(ctx context.Context, placeID string) ([]Photo, error)
	DeleteAll(ctx context.Context, placeID string) error
}

type PhotoConfig struct {
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration
}

type photoService struct {
	places PlaceService
	store  storage.Service
	cfg    PhotoConfig
	logger logrus.FieldLogger
}

// NewPhotoService wires photo storage for places. store may be nil, in which case every
// operation fails with ErrStorageNotConfigured.
func NewPhotoService(places PlaceService, store storage.Service, cfg PhotoConfig, logger logrus.FieldLogger) PhotoService {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &photoService{places: places, store: store, cfg: cfg, logger: logger}
}

func (s *photoService) configured() bool {
	return s.store != nil && s.cfg.Bucket != ""
}

func (s *photoService) placePrefix(placeID string) string {
	prefix := strings.Trim(s.cfg.KeyPrefix, "/")
	if prefix == "" {
		return path.Join("places", placeID) + "/"
	}
	return path.Join(prefix, "places", placeID) + "/"
}

func (s *photoService) Upload(ctx context.Context, placeID string, contentType string, body io.Reader, requester domain.Identity) (Photo, error) {
	if !s.configured() {
		return Photo{}, ErrStorageNotConfigured
	}
	if _, err := s.places.AuthorizePlace(ctx, placeID, policy.ActionUpdate, requester); err != nil {
		return Photo{}, err
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := photoExtensions[mediaType]
	if !ok {
		return Photo{}, domain.Validationf("unsupported photo type %q", contentType)
	}

	key := s.placePrefix(placeID) + uuid.NewString() + ext
	if _, err := s.store.PutObject(ctx, body, storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: mediaType,
	}); err != nil {
		return Photo{}, fmt.Errorf("store photo: %w", err)
	}

	url, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, key, s.cfg.URLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("photo url: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"place_id": placeID, "key": key}).Info("photo uploaded")
	return Photo{Key: key, URL: url}, nil
}

func (s *photoService) List(ctx context.Context, placeID string) ([]Photo, error) {
	if !s.configured() {
		return nil, ErrStorageNotConfigured
	}
	if _, err := s.places.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}

	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.placePrefix(placeID))
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	photos := make([]Photo, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, obj.Key, s.cfg.URLTTL)
		if err != nil {
			return nil, fmt.Errorf("photo url: %w", err)
		}
		photos = append(photos, Photo{
			Key:          obj.Key,
			URL:          url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return photos, nil
}

// DeleteAll drops every photo stored for placeID. It does not check the place still exists.
func (s *photoService) DeleteAll(ctx context.Context, placeID string) error {
	if !s.configured() {
		return ErrStorageNotConfigured
	}
	if err := s.store.DeletePrefix(ctx, s.cfg.Bucket, s.placePrefix(placeID)); err != nil {
		return fmt.Errorf("delete photos: %w", err)
	}
	s.logger.WithField("place_id", placeID).Info("photos deleted")
	return nil
}
