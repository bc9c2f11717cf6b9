package repository

import "context"

// Entity is implemented by every persisted domain type. T is the pointer type itself
// (e.g. *domain.User) so stores can hand out independent copies.
type Entity[T any] interface {
	GetID() string
	SetID(id string)
	Clone() T
	// Attribute returns a scalar field by its JSON name.
	Attribute(name string) (any, bool)
}

// Repository is a keyed store for one entity type. The boolean results report presence;
// errors are reserved for backend failures, never for a missing id.
type Repository[T Entity[T]] interface {
	// Add assigns an id when the entity has none and stores it. An existing id is overwritten.
	Add(ctx context.Context, entity T) (T, error)
	Get(ctx context.Context, id string) (T, bool, error)
	// GetByAttribute returns the first entity, in insertion order, whose attribute equals value.
	GetByAttribute(ctx context.Context, name string, value any) (T, bool, error)
	// GetAll returns every entity in insertion order. Callers must not rely on the order.
	GetAll(ctx context.Context) ([]T, error)
	// Update replaces the entity stored under id; it is a no-op when id is absent.
	Update(ctx context.Context, id string, entity T) (T, bool, error)
	// Delete removes the entity and returns its last stored value.
	Delete(ctx context.Context, id string) (T, bool, error)
}

// Transactor runs fn so that every store call made with the ctx it receives commits or
// rolls back together. A non-nil error from fn rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTx runs fn directly. It suits stores that cannot fail halfway, such as the memory store.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
