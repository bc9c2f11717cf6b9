package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hbnb/internal/auth"
	"hbnb/internal/domain"
	"hbnb/internal/policy"
)

// UserService describes user lifecycle operations.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	CreateUserAs(ctx context.Context, in CreateUserInput, requester domain.Identity) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput, requester domain.Identity) (*domain.User, error)
	DeleteUser(ctx context.Context, id string, requester domain.Identity) error
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
}

type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// UpdateUserInput carries a partial user update. Nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

func (f *Facade) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	user, err := domain.NewUser(strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), email, in.IsAdmin)
	if err != nil {
		return nil, err
	}
	hash, err := f.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureEmailAvailable(ctx, email, ""); err != nil {
		return nil, err
	}

	saved, err := f.users.Add(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	f.logger.WithFields(logrus.Fields{"user_id": saved.ID, "is_admin": saved.IsAdmin}).Info("user created")
	return sanitizeUser(saved), nil
}

// ensureEmailAvailable queries the user store at call time; selfID lets a user keep their own address.
func (f *Facade) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, found, err := f.users.GetByAttribute(ctx, "email", email)
	if err != nil {
		return fmt.Errorf("lookup user by email: %w", err)
	}
	if found && existing.ID != selfID {
		return domain.Conflictf("email already registered")
	}
	return nil
}

// CreateUserAs creates an account on behalf of requester, who must be an admin.
// Unlike open registration it honours in.IsAdmin.
func (f *Facade) CreateUserAs(ctx context.Context, in CreateUserInput, requester domain.Identity) (*domain.User, error) {
	if err := authorize(requester, policy.ActionCreate, policy.NewUser()); err != nil {
		return nil, err
	}
	return f.CreateUser(ctx, in)
}

func (f *Facade) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := f.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, found, err := f.users.GetByAttribute(ctx, "email", strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if !found {
		return nil, domain.NotFoundf("user not found")
	}
	return sanitizeUser(user), nil
}

func (f *Facade) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := f.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitizeUser(u))
	}
	return out, nil
}

func (f *Facade) UpdateUser(ctx context.Context, id string, in UpdateUserInput, requester domain.Identity) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, err := f.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, policy.ActionUpdate, policy.User(user)); err != nil {
		return nil, err
	}
	if in.IsAdmin != nil && *in.IsAdmin != user.IsAdmin {
		if err := authorize(requester, policy.ActionGrantAdmin, policy.User(user)); err != nil {
			return nil, err
		}
	}

	changes := domain.UserChanges{
		FirstName: trimmed(in.FirstName),
		LastName:  trimmed(in.LastName),
		Email:     trimmed(in.Email),
		IsAdmin:   in.IsAdmin,
	}
	if changes.Email != nil && *changes.Email != user.Email {
		if err := f.ensureEmailAvailable(ctx, *changes.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		hash, err := f.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	if err := user.Apply(changes); err != nil {
		return nil, err
	}
	updated, found, err := f.users.Update(ctx, id, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !found {
		return nil, domain.NotFoundf("user not found")
	}

	f.logger.WithField("user_id", id).Info("user updated")
	return sanitizeUser(updated), nil
}

// DeleteUser removes a user together with the reviews they wrote and the places they own,
// so no owner or author reference is left dangling.
func (f *Facade) DeleteUser(ctx context.Context, id string, requester domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, err := f.loadUser(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(requester, policy.ActionDelete, policy.User(user)); err != nil {
		return err
	}

	var removedReviews, removedPlaces int
	err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
		removedReviews, removedPlaces = 0, 0

		reviews, err := f.reviews.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		for _, r := range reviews {
			if r.UserID != id {
				continue
			}
			if err := f.removeReview(ctx, r); err != nil {
				return err
			}
			removedReviews++
		}

		places, err := f.places.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("list places: %w", err)
		}
		for _, p := range places {
			if p.OwnerID != id {
				continue
			}
			if _, _, err := f.places.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("delete place %s: %w", p.ID, err)
			}
			removedPlaces++
		}

		if _, _, err := f.users.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	f.logger.WithFields(logrus.Fields{
		"user_id":         id,
		"removed_places":  removedPlaces,
		"removed_reviews": removedReviews,
	}).Info("user deleted")
	return nil
}

func (f *Facade) hashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.Validationf("password is required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return "", domain.Validationf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return f.hasher.Hash(password)
}

// Authenticate never reveals whether the email or the password was wrong.
func (f *Facade) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	user, found, err := f.users.GetByAttribute(ctx, "email", email)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if !found {
		// Burn a comparison so unknown emails take as long as wrong passwords.
		_ = f.hasher.Compare(f.dummyHash(), password)
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	if err := f.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			f.logger.WithError(err).WithField("user_id", user.ID).Warn("password check failed")
		}
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.Identity{SubjectID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (f *Facade) dummyHash() string {
	f.dummyOnce.Do(func() {
		hash, err := f.hasher.Hash(uuid.NewString())
		if err != nil {
			f.logger.WithError(err).Warn("dummy password hash failed")
			return
		}
		f.dummy = hash
	})
	return f.dummy
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	cp := user.Clone()
	cp.PasswordHash = ""
	return cp
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

var _ UserService = (*Facade)(nil)
