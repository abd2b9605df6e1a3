package repos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"handcraftedhaven/internal/domain"
	applog "handcraftedhaven/internal/log"
)

// tsLayout is fixed-width so that TEXT ordering matches time ordering.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DriverFor picks the database/sql driver for a DSN: postgres URLs use lib/pq,
// anything else is treated as a sqlite path.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := DriverFor(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection: keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	if db.DriverName() == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return err
		}
	}
	schema := `
-- Artisans & Sessions
CREATE TABLE IF NOT EXISTS artisans(
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  artisan_id TEXT NULL REFERENCES artisans(id) ON DELETE SET NULL,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_artisan ON sessions(artisan_id);

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  artisan_id TEXT REFERENCES artisans(id) ON DELETE SET NULL,
  title TEXT NOT NULL CHECK (title <> ''),
  price BIGINT NOT NULL CHECK (price >= 0),   -- minor units
  description TEXT NOT NULL DEFAULT '',
  title_fold TEXT NOT NULL DEFAULT '',       -- query.Fold(title)
  description_fold TEXT NOT NULL DEFAULT '',
  craft_story TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  category TEXT NOT NULL CHECK (category IN ('METALWORK','TEXTILE','WOODWORK')),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_created  ON listings(created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_artisan  ON listings(artisan_id);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT,
  artisan_id TEXT NULL REFERENCES artisans(id) ON DELETE SET NULL,
  guest_name TEXT,
  guest_email TEXT,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemo inserts demo artisans and listings when the catalog is empty.
// Safe to run on every startup.
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.demo", nil)

	artisans := NewArtisanRepo(db)
	listings := NewListingRepo(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	demo := []domain.Artisan{
		{ID: "a-maren", FirstName: "Maren", LastName: "Holt", Email: "maren@handcraftedhaven.test", Hash: string(hash)},
		{ID: "a-ivo", Email: "ivo.smith@handcraftedhaven.test", Hash: string(hash)},
	}
	for _, a := range demo {
		if err := artisans.Create(ctx, a); err != nil {
			return err
		}
	}

	base := time.Now().UTC().Add(-time.Hour)
	items := []domain.Listing{
		{ID: "prod_001", ArtisanID: "a-maren", Title: "Handwoven Cotton Throw Blanket",
			Description: "Soft, breathable 100% cotton throw with traditional patterns.",
			Price:       8900, Category: domain.Textile,
			Images: []string{"products/prod_001/main.jpg", "products/prod_001/detail.jpg"}},
		{ID: "prod_002", ArtisanID: "a-ivo", Title: "Forged Iron Wall Hook Set (4pcs)",
			Description: "Hand-forged iron hooks with rustic finish. Perfect for entryways.",
			Price:       4500, Category: domain.Metalwork,
			Images: []string{"products/prod_002/main.jpg"}},
		{ID: "prod_003", ArtisanID: "a-maren", Title: "Reclaimed Oak Cutting Board",
			Description: "End-grain oak board with juice groove and leather handle.",
			CraftStory:  "Cut from beams of a barn that stood for ninety years.\n\nEach board is oiled three times over a week.",
			Price:       12500, Category: domain.Woodwork,
			Images: []string{"products/prod_003/main.jpg", "products/prod_003/side.jpg"}},
	}
	for i, l := range items {
		l.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		l.UpdatedAt = l.CreatedAt
		if err := listings.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
