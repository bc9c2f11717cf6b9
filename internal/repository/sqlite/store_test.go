package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb/internal/domain"
)

func openTestDB(t *testing.T) *Store[*domain.Place] {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "hbnb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewPlaceStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func newPlace(t *testing.T, title string) *domain.Place {
	t.Helper()
	owner := &domain.User{}
	owner.ID = "owner-1"
	p, err := domain.NewPlace(title, "desc", 100, 10, 20, owner)
	require.NoError(t, err)
	p.AddAmenity("a1")
	return p
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	saved, err := s.Add(ctx, newPlace(t, "Loft"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, found, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Loft", got.Title)
	assert.Equal(t, []string{"a1"}, got.AmenityIDs)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))

	_, found, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreOrderAndAttributes(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	first, err := s.Add(ctx, newPlace(t, "First"))
	require.NoError(t, err)
	second, err := s.Add(ctx, newPlace(t, "Second"))
	require.NoError(t, err)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	got, found, err := s.GetByAttribute(ctx, "title", "Second")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.ID, got.ID)

	got, found, err = s.GetByAttribute(ctx, "owner_id", "owner-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first.ID, got.ID)

	_, _, err = s.GetByAttribute(ctx, "title; DROP TABLE places", "x")
	assert.Error(t, err)
}

func TestStoreUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	saved, err := s.Add(ctx, newPlace(t, "Loft"))
	require.NoError(t, err)

	saved.Title = "Bigger loft"
	updated, found, err := s.Update(ctx, saved.ID, saved)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bigger loft", updated.Title)

	_, found, err = s.Update(ctx, "missing", saved)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, found, err := s.Delete(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bigger loft", deleted.Title)

	_, found, err = s.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUserStorePersistsHashAndFindsByEmail(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "hbnb.db"))
	require.NoError(t, err)
	defer db.Close()

	users := NewUserStore(db)
	require.NoError(t, users.Init(ctx))

	u, err := domain.NewUser("Ada", "Lovelace", "ada@example.com", true)
	require.NoError(t, err)
	u.PasswordHash = "hash"
	saved, err := users.Add(ctx, u)
	require.NoError(t, err)

	got, found, err := users.GetByAttribute(ctx, "email", "ada@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, found, err = users.GetByAttribute(ctx, "is_admin", true)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.ID, got.ID)
}

func TestInitRejectsBadTableName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewStore[*domain.Amenity](db, "amenities; --").Init(context.Background())
	assert.Error(t, err)
}

func TestStoreWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewAmenityStore(db)
	boom := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT body FROM amenities ORDER BY seq`).WillReturnError(boom)
	_, err = s.GetAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`SELECT body FROM amenities WHERE id = \?`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{not json`))
	_, _, err = s.Get(context.Background(), "a1")
	assert.ErrorContains(t, err, "decode amenities row")

	mock.ExpectExec(`UPDATE amenities SET body`).WillReturnError(boom)
	a, err := domain.NewAmenity("Wifi")
	require.NoError(t, err)
	_, _, err = s.Update(context.Background(), "a1", a)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
