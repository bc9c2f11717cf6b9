package service

import (
	"context"
	"fmt"
	"strings"

	"hbnb/internal/domain"
	"hbnb/internal/policy"
)

type AmenityService interface {
	CreateAmenity(ctx context.Context, in CreateAmenityInput) (*domain.Amenity, error)
	GetAmenity(ctx context.Context, id string) (*domain.Amenity, error)
	GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error)
	UpdateAmenity(ctx context.Context, id string, changes domain.AmenityChanges, requester domain.Identity) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, id string, requester domain.Identity) error
}

type CreateAmenityInput struct {
	Name string
}

func (f *Facade) CreateAmenity(ctx context.Context, in CreateAmenityInput) (*domain.Amenity, error) {
	amenity, err := domain.NewAmenity(strings.TrimSpace(in.Name))
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	saved, err := f.amenities.Add(ctx, amenity)
	if err != nil {
		return nil, fmt.Errorf("add amenity: %w", err)
	}
	f.logger.WithField("amenity_id", saved.ID).Info("amenity created")
	return saved, nil
}

func (f *Facade) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	return f.loadAmenity(ctx, id)
}

func (f *Facade) GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error) {
	amenities, err := f.amenities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return amenities, nil
}

func (f *Facade) UpdateAmenity(ctx context.Context, id string, changes domain.AmenityChanges, requester domain.Identity) (*domain.Amenity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	amenity, err := f.loadAmenity(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, policy.ActionUpdate, policy.Amenity()); err != nil {
		return nil, err
	}

	changes.Name = trimmed(changes.Name)
	if err := amenity.Apply(changes); err != nil {
		return nil, err
	}
	updated, found, err := f.amenities.Update(ctx, id, amenity)
	if err != nil {
		return nil, fmt.Errorf("update amenity: %w", err)
	}
	if !found {
		return nil, domain.NotFoundf("amenity not found")
	}
	f.logger.WithField("amenity_id", id).Info("amenity updated")
	return updated, nil
}

// DeleteAmenity leaves places untouched; stale amenity ids are dropped when a place's
// amenities are resolved.
func (f *Facade) DeleteAmenity(ctx context.Context, id string, requester domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.loadAmenity(ctx, id); err != nil {
		return err
	}
	if err := authorize(requester, policy.ActionDelete, policy.Amenity()); err != nil {
		return err
	}
	if _, _, err := f.amenities.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete amenity: %w", err)
	}
	f.logger.WithField("amenity_id", id).Info("amenity deleted")
	return nil
}

var _ AmenityService = (*Facade)(nil)
