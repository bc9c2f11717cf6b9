package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"hbnb/internal/domain"
	"hbnb/internal/policy"
)

type ReviewService interface {
	CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetAllReviews(ctx context.Context) ([]*domain.Review, error)
	GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id string, changes domain.ReviewChanges, requester domain.Identity) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string, requester domain.Identity) error
}

// CreateReviewInput uses pointers so a missing field can be told apart from a zero value.
type CreateReviewInput struct {
	Text    *string
	Rating  *int
	UserID  *string
	PlaceID *string
}

func (in CreateReviewInput) missingField() string {
	switch {
	case in.Text == nil:
		return "text"
	case in.Rating == nil:
		return "rating"
	case in.UserID == nil:
		return "user_id"
	case in.PlaceID == nil:
		return "place_id"
	}
	return ""
}

func (f *Facade) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	if field := in.missingField(); field != "" {
		return nil, domain.Validationf("missing required field: %s", field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	author, err := f.lookupUser(ctx, *in.UserID)
	if err != nil {
		return nil, err
	}
	place, err := f.lookupPlace(ctx, *in.PlaceID)
	if err != nil {
		return nil, err
	}
	review, err := domain.NewReview(*in.Text, *in.Rating, author, place)
	if err != nil {
		return nil, err
	}

	var saved *domain.Review
	err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
		saved, err = f.reviews.Add(ctx, review)
		if err != nil {
			return fmt.Errorf("add review: %w", err)
		}
		place.AddReview(saved.ID)
		if _, _, err := f.places.Update(ctx, place.ID, place); err != nil {
			return fmt.Errorf("link review to place: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.WithFields(logrus.Fields{
		"review_id": saved.ID,
		"place_id":  saved.PlaceID,
		"user_id":   saved.UserID,
	}).Info("review created")
	return saved, nil
}

func (f *Facade) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return f.loadReview(ctx, id)
}

func (f *Facade) GetAllReviews(ctx context.Context) ([]*domain.Review, error) {
	reviews, err := f.reviews.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// GetReviewsByPlace returns the reviews of placeID in creation order. An unknown place
// simply has no reviews.
func (f *Facade) GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	reviews, err := f.reviews.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]*domain.Review, 0)
	for _, r := range reviews {
		if r.PlaceID == placeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Facade) UpdateReview(ctx context.Context, id string, changes domain.ReviewChanges, requester domain.Identity) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, err := f.loadReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, policy.ActionUpdate, policy.Review(review)); err != nil {
		return nil, err
	}
	if err := review.Apply(changes); err != nil {
		return nil, err
	}
	updated, found, err := f.reviews.Update(ctx, id, review)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if !found {
		return nil, domain.NotFoundf("review not found")
	}
	f.logger.WithField("review_id", id).Info("review updated")
	return updated, nil
}

func (f *Facade) DeleteReview(ctx context.Context, id string, requester domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, err := f.loadReview(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(requester, policy.ActionDelete, policy.Review(review)); err != nil {
		return err
	}
	if err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
		return f.removeReview(ctx, review)
	}); err != nil {
		return err
	}
	f.logger.WithField("review_id", id).Info("review deleted")
	return nil
}

// removeReview deletes a review and unlinks it from its place. Callers hold mu.
func (f *Facade) removeReview(ctx context.Context, review *domain.Review) error {
	if _, _, err := f.reviews.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review %s: %w", review.ID, err)
	}
	place, err := f.lookupPlace(ctx, review.PlaceID)
	if err != nil {
		return err
	}
	if place != nil && place.RemoveReview(review.ID) {
		if _, _, err := f.places.Update(ctx, place.ID, place); err != nil {
			return fmt.Errorf("unlink review from place: %w", err)
		}
	}
	return nil
}

var _ ReviewService = (*Facade)(nil)
