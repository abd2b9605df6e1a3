package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/repos"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedArtisan(t *testing.T, db *sqlx.DB, a domain.Artisan) {
	t.Helper()
	require.NoError(t, repos.NewArtisanRepo(db).Create(context.Background(), a))
}

// seedListings inserts one listing per category, the i-th created i minutes
// after t0, with ids l00, l01, ...
func seedListings(t *testing.T, db *sqlx.DB, owner string, cats ...domain.Category) {
	t.Helper()
	repo := repos.NewListingRepo(db)
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM listings`))
	for i, c := range cats {
		at := t0.Add(time.Duration(n+i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), domain.Listing{
			ID: fmt.Sprintf("l%02d", n+i), ArtisanID: owner, Title: fmt.Sprintf("Piece %d", n+i),
			Price: int64(1000 + n + i), Category: c, CreatedAt: at, UpdatedAt: at,
		}))
	}
}

func repeat(c domain.Category, n int) []domain.Category {
	out := make([]domain.Category, n)
	for i := range out {
		out[i] = c
	}
	return out
}
