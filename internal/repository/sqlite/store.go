package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"hbnb/internal/domain"
	"hbnb/internal/repository"
)

// Table names for the four entity stores.
const (
	UsersTable     = "users"
	PlacesTable    = "places"
	AmenitiesTable = "amenities"
	ReviewsTable   = "reviews"
)

const createDocumentTable = `
CREATE TABLE IF NOT EXISTS %s (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	body TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

var identPattern = regexp.MustCompile(`^[a-z_]+$`)

// Store persists one entity type as JSON documents, one row per entity. seq preserves
// insertion order; upserts keep the first seq.
type Store[T repository.Entity[T]] struct {
	db    *sql.DB
	table string
}

func NewStore[T repository.Entity[T]](db *sql.DB, table string) *Store[T] {
	return &Store[T]{db: db, table: table}
}

func NewUserStore(db *sql.DB) *Store[*domain.User] {
	return NewStore[*domain.User](db, UsersTable)
}

func NewPlaceStore(db *sql.DB) *Store[*domain.Place] {
	return NewStore[*domain.Place](db, PlacesTable)
}

func NewAmenityStore(db *sql.DB) *Store[*domain.Amenity] {
	return NewStore[*domain.Amenity](db, AmenitiesTable)
}

func NewReviewStore(db *sql.DB) *Store[*domain.Review] {
	return NewStore[*domain.Review](db, ReviewsTable)
}

func (s *Store[T]) Init(ctx context.Context) error {
	if !identPattern.MatchString(s.table) {
		return fmt.Errorf("invalid table name %q", s.table)
	}
	if _, err := s.conn(ctx).ExecContext(ctx, fmt.Sprintf(createDocumentTable, s.table)); err != nil {
		return fmt.Errorf("create %s table: %w", s.table, err)
	}
	return nil
}

func (s *Store[T]) Add(ctx context.Context, entity T) (T, error) {
	if entity.GetID() == "" {
		entity.SetID(uuid.NewString())
	}
	body, err := json.Marshal(entity)
	if err != nil {
		return entity, fmt.Errorf("encode %s row: %w", s.table, err)
	}

	now := time.Now().UTC()
	_, err = s.conn(ctx).ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (id, body, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`, s.table),
		entity.GetID(),
		string(body),
		now,
		now,
	)
	if err != nil {
		return entity, fmt.Errorf("insert %s row: %w", s.table, err)
	}
	return entity.Clone(), nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	row := s.conn(ctx).QueryRowContext(ctx, fmt.Sprintf(`SELECT body FROM %s WHERE id = ?`, s.table), id)
	return s.scanOne(row)
}

func (s *Store[T]) GetByAttribute(ctx context.Context, name string, value any) (T, bool, error) {
	var zero T
	if !identPattern.MatchString(name) {
		return zero, false, fmt.Errorf("invalid attribute name %q", name)
	}
	// json_extract yields 0/1 for JSON booleans
	if b, ok := value.(bool); ok {
		if b {
			value = 1
		} else {
			value = 0
		}
	}

	row := s.conn(ctx).QueryRowContext(ctx, fmt.Sprintf(`
SELECT body FROM %s
WHERE json_extract(body, ?) = ?
ORDER BY seq
LIMIT 1`, s.table),
		"$."+name,
		value,
	)
	return s.scanOne(row)
}

func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, fmt.Sprintf(`SELECT body FROM %s ORDER BY seq`, s.table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.table, err)
		}
		entity, err := s.decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", s.table, err)
	}
	return out, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, entity T) (T, bool, error) {
	var zero T
	entity.SetID(id)
	body, err := json.Marshal(entity)
	if err != nil {
		return zero, false, fmt.Errorf("encode %s row: %w", s.table, err)
	}

	res, err := s.conn(ctx).ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET body = ?, updated_at = ? WHERE id = ?`, s.table),
		string(body),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return zero, false, fmt.Errorf("update %s row: %w", s.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return zero, false, fmt.Errorf("%s rows affected: %w", s.table, err)
	}
	if affected == 0 {
		return zero, false, nil
	}
	return entity.Clone(), true, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) (T, bool, error) {
	row := s.conn(ctx).QueryRowContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ? RETURNING body`, s.table), id)
	return s.scanOne(row)
}

// conn returns the transaction carried by ctx, if any.
func (s *Store[T]) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func (s *Store[T]) scanOne(row *sql.Row) (T, bool, error) {
	var zero T
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("scan %s row: %w", s.table, err)
	}
	entity, err := s.decode(body)
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

func (s *Store[T]) decode(body string) (T, error) {
	var entity T
	if err := json.Unmarshal([]byte(body), &entity); err != nil {
		return entity, fmt.Errorf("decode %s row: %w", s.table, err)
	}
	return entity, nil
}

var (
	_ repository.Repository[*domain.User]    = (*Store[*domain.User])(nil)
	_ repository.Repository[*domain.Place]   = (*Store[*domain.Place])(nil)
	_ repository.Repository[*domain.Amenity] = (*Store[*domain.Amenity])(nil)
	_ repository.Repository[*domain.Review]  = (*Store[*domain.Review])(nil)
)
