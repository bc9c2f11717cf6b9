package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"hbnb/internal/domain"
	"hbnb/internal/policy"
)

type PlaceService interface {
	CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error)
	GetPlace(ctx context.Context, id string) (*domain.Place, error)
	GetAllPlaces(ctx context.Context) ([]*domain.Place, error)
	GetPlacesByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error)
	PlaceAmenities(ctx context.Context, place *domain.Place) ([]*domain.Amenity, error)
	UpdatePlace(ctx context.Context, id string, changes domain.PlaceChanges, requester domain.Identity) (*domain.Place, error)
	DeletePlace(ctx context.Context, id string, requester domain.Identity) error
	AuthorizePlace(ctx context.Context, id string, action policy.Action, requester domain.Identity) (*domain.Place, error)
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
}

// CreatePlace validates the listing, resolves its owner and links the amenities that exist.
// Unknown amenity ids are skipped rather than rejected.
func (f *Facade) CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner, err := f.lookupUser(ctx, strings.TrimSpace(in.OwnerID))
	if err != nil {
		return nil, err
	}
	place, err := domain.NewPlace(strings.TrimSpace(in.Title), in.Description, in.Price, in.Latitude, in.Longitude, owner)
	if err != nil {
		return nil, err
	}

	amenityIDs, err := f.resolveAmenities(ctx, in.AmenityIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range amenityIDs {
		place.AddAmenity(id)
	}

	saved, err := f.places.Add(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("add place: %w", err)
	}
	f.logger.WithFields(logrus.Fields{"place_id": saved.ID, "owner_id": saved.OwnerID}).Info("place created")
	return saved, nil
}

// resolveAmenities keeps the ids that exist in the amenity store, in order, without duplicates.
func (f *Facade) resolveAmenities(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		_, found, err := f.amenities.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get amenity %s: %w", id, err)
		}
		if !found {
			f.logger.WithField("amenity_id", id).Debug("skipping unknown amenity")
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (f *Facade) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	return f.loadPlace(ctx, id)
}

func (f *Facade) GetAllPlaces(ctx context.Context) ([]*domain.Place, error) {
	places, err := f.places.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

func (f *Facade) GetPlacesByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error) {
	places, err := f.places.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	out := make([]*domain.Place, 0)
	for _, p := range places {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// PlaceAmenities resolves the amenity ids of place, dropping ids whose amenity was deleted.
func (f *Facade) PlaceAmenities(ctx context.Context, place *domain.Place) ([]*domain.Amenity, error) {
	out := make([]*domain.Amenity, 0, len(place.AmenityIDs))
	for _, id := range place.AmenityIDs {
		amenity, found, err := f.amenities.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get amenity %s: %w", id, err)
		}
		if found {
			out = append(out, amenity)
		}
	}
	return out, nil
}

func (f *Facade) UpdatePlace(ctx context.Context, id string, changes domain.PlaceChanges, requester domain.Identity) (*domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	place, err := f.loadPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, policy.ActionUpdate, policy.Place(place)); err != nil {
		return nil, err
	}

	changes.Title = trimmed(changes.Title)
	if changes.OwnerID != nil {
		ownerID := strings.TrimSpace(*changes.OwnerID)
		owner, err := f.lookupUser(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, domain.Referencef("owner not found")
		}
		changes.OwnerID = &ownerID
	}
	if changes.AmenityIDs != nil {
		resolved, err := f.resolveAmenities(ctx, *changes.AmenityIDs)
		if err != nil {
			return nil, err
		}
		changes.AmenityIDs = &resolved
	}

	if err := place.Apply(changes); err != nil {
		return nil, err
	}
	updated, found, err := f.places.Update(ctx, id, place)
	if err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}
	if !found {
		return nil, domain.NotFoundf("place not found")
	}
	f.logger.WithField("place_id", id).Info("place updated")
	return updated, nil
}

// DeletePlace removes only the place; its reviews are kept.
func (f *Facade) DeletePlace(ctx context.Context, id string, requester domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	place, err := f.loadPlace(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(requester, policy.ActionDelete, policy.Place(place)); err != nil {
		return err
	}
	if _, _, err := f.places.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	f.logger.WithField("place_id", id).Info("place deleted")
	return nil
}

// AuthorizePlace loads a place and checks requester may perform action on it.
func (f *Facade) AuthorizePlace(ctx context.Context, id string, action policy.Action, requester domain.Identity) (*domain.Place, error) {
	place, err := f.loadPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, action, policy.Place(place)); err != nil {
		return nil, err
	}
	return place, nil
}

var _ PlaceService = (*Facade)(nil)
