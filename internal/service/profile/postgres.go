package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	core "github.com/MitroiBogdan/NEXAR/internal/profile"
)

// PgxPool is the part of a pgx connection pool the store uses. It is
// implemented by *pgxpool.Pool and by pgxmock pools in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const profileColumns = "id, owner_id, name, email, phone, location, description, website, " +
	"verified, rating, review_count, created_at, updated_at"

const (
	selectProfileByID    = "SELECT " + profileColumns + " FROM profiles WHERE id = $1"
	selectProfileByOwner = "SELECT " + profileColumns + " FROM profiles WHERE owner_id = $1"
	selectListings       = "SELECT id, status, view_count, favorite_count, created_at FROM listings " +
		"WHERE seller_id = $1 ORDER BY created_at DESC, id"
	updateProfile = "UPDATE profiles SET name = $2, phone = $3, location = $4, description = $5, " +
		"website = $6, updated_at = now() WHERE owner_id = $1 RETURNING " + profileColumns
)

// PostgresStore implements Store on the profiles and listings tables created
// by the embedded migrations.
type PostgresStore struct {
	pool PgxPool
}

func NewPostgresStore(pool PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects a pool to dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, key core.LookupKey) (*core.Profile, error) {
	var q string
	switch key.By {
	case core.ByID:
		q = selectProfileByID
	case core.ByOwnerID:
		q = selectProfileByOwner
	default:
		return nil, fmt.Errorf("unsupported lookup field %q", key.By)
	}
	p, err := scanProfile(s.pool.QueryRow(ctx, q, key.Value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("get profile: %w", err)}
	}
	return p, nil
}

func (s *PostgresStore) ListListingsBySeller(ctx context.Context, profileID string) ([]core.ListingSummary, error) {
	rows, err := s.pool.Query(ctx, selectListings, profileID)
	if err != nil {
		return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("list listings: %w", err)}
	}
	defer rows.Close()

	var out []core.ListingSummary
	for rows.Next() {
		var (
			l      core.ListingSummary
			status string
		)
		if err := rows.Scan(&l.ID, &status, &l.ViewCount, &l.FavoriteCount, &l.CreatedAt); err != nil {
			return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("scan listing: %w", err)}
		}
		l.Status = core.ListingStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("list listings: %w", err)}
	}
	return out, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, ownerID string, f core.Fields) (*core.Profile, error) {
	row := s.pool.QueryRow(ctx, updateProfile, ownerID, f.Name, f.Phone, f.Location, f.Description, f.Website)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.NewStoreError(core.ErrNotFound)
		}
		return nil, &core.StoreError{Message: msgSaveFailed, Err: fmt.Errorf("update profile: %w", err)}
	}
	return p, nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanProfile(row pgx.Row) (*core.Profile, error) {
	var p core.Profile
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Email, &p.Phone, &p.Location, &p.Description,
		&p.Website, &p.Verified, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ Store = (*PostgresStore)(nil)
