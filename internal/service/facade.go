package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"hbnb/internal/auth"
	"hbnb/internal/domain"
	"hbnb/internal/policy"
	"hbnb/internal/repository"
)

// Repositories groups the per-entity stores the facade orchestrates.
type Repositories struct {
	Users     repository.Repository[*domain.User]
	Places    repository.Repository[*domain.Place]
	Amenities repository.Repository[*domain.Amenity]
	Reviews   repository.Repository[*domain.Review]
	// Tx groups multi-store writes. Nil means repository.NoTx.
	Tx repository.Transactor
}

// Facade is the single entry point for reading and mutating entities. It validates input,
// resolves references, consults the authorization policy and only then touches a store.
//
// Mutations are serialized by mu so that check-then-act sequences (email uniqueness,
// reference resolution, cascades) cannot interleave.
type Facade struct {
	users     repository.Repository[*domain.User]
	places    repository.Repository[*domain.Place]
	amenities repository.Repository[*domain.Amenity]
	reviews   repository.Repository[*domain.Review]
	tx        repository.Transactor

	hasher auth.PasswordHasher
	logger logrus.FieldLogger

	mu sync.Mutex

	dummyOnce sync.Once
	dummy     string
}

func NewFacade(repos Repositories, hasher auth.PasswordHasher, logger logrus.FieldLogger) *Facade {
	if hasher == nil {
		hasher = auth.NewBcryptHasher(0)
	}
	tx := repos.Tx
	if tx == nil {
		tx = repository.NoTx{}
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Facade{
		users:     repos.Users,
		places:    repos.Places,
		amenities: repos.Amenities,
		reviews:   repos.Reviews,
		tx:        tx,
		hasher:    hasher,
		logger:    logger,
	}
}

func authorize(requester domain.Identity, action policy.Action, resource policy.Resource) error {
	if !policy.Allowed(requester, action, resource) {
		return domain.Forbiddenf("unauthorized action: cannot %s this %s", action, resource.Kind)
	}
	return nil
}

func (f *Facade) loadUser(ctx context.Context, id string) (*domain.User, error) {
	user, found, err := f.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !found {
		return nil, domain.NotFoundf("user not found")
	}
	return user, nil
}

func (f *Facade) loadPlace(ctx context.Context, id string) (*domain.Place, error) {
	place, found, err := f.places.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get place %s: %w", id, err)
	}
	if !found {
		return nil, domain.NotFoundf("place not found")
	}
	return place, nil
}

func (f *Facade) loadAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	amenity, found, err := f.amenities.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get amenity %s: %w", id, err)
	}
	if !found {
		return nil, domain.NotFoundf("amenity not found")
	}
	return amenity, nil
}

func (f *Facade) loadReview(ctx context.Context, id string) (*domain.Review, error) {
	review, found, err := f.reviews.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	if !found {
		return nil, domain.NotFoundf("review not found")
	}
	return review, nil
}

// lookupUser resolves an optional reference; a missing user yields nil without error.
func (f *Facade) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, nil
	}
	user, found, err := f.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return user, nil
}

func (f *Facade) lookupPlace(ctx context.Context, id string) (*domain.Place, error) {
	if id == "" {
		return nil, nil
	}
	place, found, err := f.places.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get place %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return place, nil
}
