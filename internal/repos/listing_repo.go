package repos

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/query"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

type listingRow struct {
	ID          string `db:"id"`
	ArtisanID   string `db:"artisan_id"`
	Title       string `db:"title"`
	Price       int64  `db:"price"`
	Description string `db:"description"`
	CraftStory  string `db:"craft_story"`
	ImagesJSON  string `db:"images_json"`
	Category    string `db:"category"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r listingRow) toDomain() domain.Listing {
	return domain.Listing{
		ID:          r.ID,
		ArtisanID:   r.ArtisanID,
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		CraftStory:  r.CraftStory,
		Images:      decodeImages(r.ImagesJSON),
		Category:    domain.Category(r.Category),
		CreatedAt:   parseTS(r.CreatedAt),
		UpdatedAt:   parseTS(r.UpdatedAt),
	}
}

type summaryRow struct {
	ID         string `db:"id"`
	Title      string `db:"title"`
	Price      int64  `db:"price"`
	ImagesJSON string `db:"images_json"`
	Category   string `db:"category"`
	CreatedAt  string `db:"created_at"`
	SellerID   string `db:"seller_id"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	Email      string `db:"email"`
}

func (r summaryRow) toDomain() domain.ListingSummary {
	var seller *domain.Artisan
	if r.SellerID != "" {
		seller = &domain.Artisan{ID: r.SellerID, FirstName: r.FirstName, LastName: r.LastName, Email: r.Email}
	}
	return domain.ListingSummary{
		ID:                r.ID,
		Title:             r.Title,
		Price:             r.Price,
		Images:            decodeImages(r.ImagesJSON),
		Category:          domain.Category(r.Category),
		CreatedAt:         parseTS(r.CreatedAt),
		SellerDisplayName: domain.SellerName(seller),
	}
}

func decodeImages(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeImages(images []string) string {
	if images == nil {
		images = []string{}
	}
	b, _ := json.Marshal(images)
	return string(b)
}

const listingCols = `
    l.id, COALESCE(l.artisan_id,'') AS artisan_id, l.title, l.price, l.description,
    l.craft_story, l.images_json, l.category, l.created_at, l.updated_at`

// newestFirst is the one ordering used for every listing page.
const newestFirst = `ORDER BY l.created_at DESC, l.id DESC`

// Count returns how many listings satisfy p.
func (r *ListingRepo) Count(ctx context.Context, p query.Predicate) (int, error) {
	where, args := compileWhere(p)
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM listings l WHERE `+where), args...)
	return n, err
}

// Page returns one page of listings satisfying p, newest first, with the
// seller's name fields joined in.
func (r *ListingRepo) Page(ctx context.Context, p query.Predicate, limit, offset int) ([]domain.ListingSummary, error) {
	where, args := compileWhere(p)
	sql := `
  SELECT
    l.id, l.title, l.price, l.images_json, l.category, l.created_at,
    COALESCE(a.id,'') AS seller_id, COALESCE(a.first_name,'') AS first_name,
    COALESCE(a.last_name,'') AS last_name, COALESCE(a.email,'') AS email
  FROM listings l
  LEFT JOIN artisans a ON a.id = l.artisan_id
  WHERE ` + where + `
  ` + newestFirst + `
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sql), args...); err != nil {
		return nil, err
	}
	out := make([]domain.ListingSummary, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Get returns sql.ErrNoRows when the listing does not exist.
func (r *ListingRepo) Get(ctx context.Context, id string) (domain.Listing, error) {
	var row listingRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+listingCols+` FROM listings l WHERE l.id = ?`), id)
	if err != nil {
		return domain.Listing{}, err
	}
	return row.toDomain(), nil
}

// ByArtisan lists an artisan's listings newest first, skipping excludeID.
// A non-positive limit returns all of them.
func (r *ListingRepo) ByArtisan(ctx context.Context, artisanID, excludeID string, limit int) ([]domain.Listing, error) {
	sql := `SELECT ` + listingCols + ` FROM listings l WHERE l.artisan_id = ? AND l.id <> ? ` + newestFirst
	args := []any{artisanID, excludeID}
	if limit > 0 {
		sql += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sql), args...); err != nil {
		return nil, err
	}
	out := make([]domain.Listing, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *ListingRepo) Create(ctx context.Context, l domain.Listing) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO listings
	    (id, artisan_id, title, price, description, title_fold, description_fold,
	     craft_story, images_json, category, created_at, updated_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), l.ID, nullable(l.ArtisanID), l.Title, l.Price, l.Description, query.Fold(l.Title), query.Fold(l.Description),
		l.CraftStory, encodeImages(l.Images), string(l.Category), formatTS(l.CreatedAt), formatTS(l.UpdatedAt))
	return err
}

// Update rewrites the mutable fields; id, owner and created_at are kept.
func (r *ListingRepo) Update(ctx context.Context, l domain.Listing) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  UPDATE listings
	  SET title = ?, price = ?, description = ?, title_fold = ?, description_fold = ?,
	      craft_story = ?, images_json = ?, category = ?, updated_at = ?
	  WHERE id = ?
	`), l.Title, l.Price, l.Description, query.Fold(l.Title), query.Fold(l.Description),
		l.CraftStory, encodeImages(l.Images), string(l.Category), formatTS(l.UpdatedAt), l.ID)
	return err
}

// Delete removes a listing and every review that references it.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reviews WHERE listing_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM listings WHERE id = ?`), id); err != nil {
		return err
	}
	return tx.Commit()
}
