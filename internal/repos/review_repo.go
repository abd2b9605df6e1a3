package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"handcraftedhaven/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewRow is a review with whatever is known about its author.
type ReviewRow struct {
	domain.Review
	Author *domain.Artisan // nil for guests or deleted accounts
}

func nullable(s string) sql.NullString { return sql.NullString{String: s, Valid: s != ""} }

func (r *ReviewRepo) Create(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO reviews(id, listing_id, rating, comment, artisan_id, guest_name, guest_email, created_at)
	  VALUES(?,?,?,?,?,?,?,?)
	`), rv.ID, rv.ListingID, rv.Rating, nullable(rv.Comment), nullable(rv.AuthorID),
		nullable(rv.GuestName), nullable(rv.GuestEmail), formatTS(rv.CreatedAt))
	return err
}

// ByListing returns every review of a listing, newest first.
func (r *ReviewRepo) ByListing(ctx context.Context, listingID string) ([]ReviewRow, error) {
	var rows []struct {
		ID         string `db:"id"`
		ListingID  string `db:"listing_id"`
		Rating     int    `db:"rating"`
		Comment    string `db:"comment"`
		AuthorID   string `db:"author_id"`
		GuestName  string `db:"guest_name"`
		GuestEmail string `db:"guest_email"`
		CreatedAt  string `db:"created_at"`
		FirstName  string `db:"first_name"`
		LastName   string `db:"last_name"`
		Email      string `db:"email"`
	}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
	  SELECT rv.id, rv.listing_id, rv.rating, COALESCE(rv.comment,'') AS comment,
	         COALESCE(a.id,'') AS author_id,
	         COALESCE(rv.guest_name,'') AS guest_name, COALESCE(rv.guest_email,'') AS guest_email,
	         rv.created_at,
	         COALESCE(a.first_name,'') AS first_name, COALESCE(a.last_name,'') AS last_name,
	         COALESCE(a.email,'') AS email
	  FROM reviews rv
	  LEFT JOIN artisans a ON a.id = rv.artisan_id
	  WHERE rv.listing_id = ?
	  ORDER BY rv.created_at DESC, rv.id DESC
	`), listingID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewRow, len(rows))
	for i, row := range rows {
		out[i] = ReviewRow{Review: domain.Review{
			ID:         row.ID,
			ListingID:  row.ListingID,
			Rating:     row.Rating,
			Comment:    row.Comment,
			AuthorID:   row.AuthorID,
			GuestName:  row.GuestName,
			GuestEmail: row.GuestEmail,
			CreatedAt:  parseTS(row.CreatedAt),
		}}
		if row.AuthorID != "" {
			out[i].Author = &domain.Artisan{ID: row.AuthorID, FirstName: row.FirstName, LastName: row.LastName, Email: row.Email}
		}
	}
	return out, nil
}
