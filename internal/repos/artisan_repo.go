package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"handcraftedhaven/internal/domain"
)

type ArtisanRepo struct{ DB *sqlx.DB }

func NewArtisanRepo(db *sqlx.DB) *ArtisanRepo { return &ArtisanRepo{DB: db} }

func (r *ArtisanRepo) Create(ctx context.Context, a domain.Artisan) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
	  INSERT INTO artisans(id, first_name, last_name, email, password_hash, created_at)
	  VALUES(?,?,?,?,?,?)
	  ON CONFLICT(email) DO NOTHING
	`), a.ID, a.FirstName, a.LastName, a.Email, a.Hash, formatTS(a.CreatedAt))
	return err
}

func (r *ArtisanRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM artisans`)
	return n, err
}

type artisanCountRow struct {
	ID           string `db:"id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Email        string `db:"email"`
	CreatedAt    string `db:"created_at"`
	ListingCount int    `db:"listing_count"`
}

const artisanCounts = `
  SELECT a.id, a.first_name, a.last_name, a.email, a.created_at, COUNT(l.id) AS listing_count
  FROM artisans a
  LEFT JOIN listings l ON l.artisan_id = a.id
  GROUP BY a.id, a.first_name, a.last_name, a.email, a.created_at`

// WithListingCounts lists every artisan with the number of listings they
// own, newest artisan first.
func (r *ArtisanRepo) WithListingCounts(ctx context.Context) ([]domain.ArtisanSummary, error) {
	return r.counts(ctx, artisanCounts+` ORDER BY a.created_at DESC, a.id DESC`)
}

// TopSellers returns the limit artisans owning the most listings. Ties go
// to the lower id.
func (r *ArtisanRepo) TopSellers(ctx context.Context, limit int) ([]domain.ArtisanSummary, error) {
	return r.counts(ctx, artisanCounts+` ORDER BY listing_count DESC, a.id ASC LIMIT ?`, limit)
}

func (r *ArtisanRepo) counts(ctx context.Context, sql string, args ...any) ([]domain.ArtisanSummary, error) {
	var rows []artisanCountRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(sql), args...); err != nil {
		return nil, err
	}
	out := make([]domain.ArtisanSummary, len(rows))
	for i, row := range rows {
		out[i] = domain.ArtisanSummary{
			ID:           row.ID,
			DisplayName:  domain.DisplayName(row.FirstName, row.LastName, row.Email, domain.SellerPlaceholder),
			Email:        row.Email,
			ListingCount: row.ListingCount,
			JoinedAt:     parseTS(row.CreatedAt),
		}
	}
	return out, nil
}

func (r *ArtisanRepo) ByEmail(ctx context.Context, email string) (*domain.Artisan, error) {
	var a domain.Artisan
	err := r.DB.GetContext(ctx, &a, r.DB.Rebind(`
	  SELECT id, first_name, last_name, email, password_hash
	  FROM artisans WHERE LOWER(email) = LOWER(?)`), email)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArtisanRepo) ByID(ctx context.Context, id string) (*domain.Artisan, error) {
	var a domain.Artisan
	err := r.DB.GetContext(ctx, &a, r.DB.Rebind(`
	  SELECT id, first_name, last_name, email, password_hash
	  FROM artisans WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArtisanRepo) BindSession(ctx context.Context, sid, artisanID string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
	  INSERT INTO sessions(id, artisan_id, last_seen)
	  VALUES(?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET artisan_id = excluded.artisan_id, last_seen = CURRENT_TIMESTAMP`), sid, artisanID)
	return err
}

func (r *ArtisanRepo) SessionArtisan(ctx context.Context, sid string) (*domain.Artisan, error) {
	var a domain.Artisan
	err := r.DB.GetContext(ctx, &a, r.DB.Rebind(`
	  SELECT a.id, a.first_name, a.last_name, a.email, a.password_hash
	  FROM sessions s
	  JOIN artisans a ON a.id = s.artisan_id
	  WHERE s.id = ?`), sid)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArtisanRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE sessions SET artisan_id = NULL, last_seen = CURRENT_TIMESTAMP WHERE id = ?`), sid)
	return err
}
