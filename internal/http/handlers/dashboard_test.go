package handlers_test

import (
	"net/http"
	"testing"
)

func TestArtisanDirectoryAndOverview(t *testing.T) {
	app, _ := newTestApp(t, false)

	if resp, _ := do(t, app, "GET", "/api/v1/artisans", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous directory: expected 401, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, "GET", "/api/v1/me/overview", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous overview: expected 401, got %d", resp.StatusCode)
	}

	maren := login(t, app, marenEmail)
	resp, body := do(t, app, "GET", "/api/v1/artisans", nil, maren)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("directory: expected 200, got %d", resp.StatusCode)
	}
	var dir struct {
		Items []struct {
			ID           string `json:"id"`
			DisplayName  string `json:"displayName"`
			ListingCount int    `json:"listingCount"`
		} `json:"items"`
	}
	decode(t, body, &dir)
	counts := map[string]int{}
	for _, a := range dir.Items {
		counts[a.DisplayName] = a.ListingCount
	}
	if len(counts) != 2 || counts["Maren Holt"] != 2 || counts["ivo.smith"] != 1 {
		t.Fatalf("unexpected directory %s", body)
	}

	resp, body = do(t, app, "GET", "/api/v1/me/overview", nil, maren)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("overview: expected 200, got %d", resp.StatusCode)
	}
	var ov struct {
		TotalListings  int `json:"totalListings"`
		TotalArtisans  int `json:"totalArtisans"`
		RecentListings []struct {
			ID string `json:"id"`
		} `json:"recentListings"`
		TopSellers []struct {
			ID           string `json:"id"`
			ListingCount int    `json:"listingCount"`
		} `json:"topSellers"`
	}
	decode(t, body, &ov)
	if ov.TotalListings != 3 || ov.TotalArtisans != 2 {
		t.Fatalf("unexpected totals %s", body)
	}
	if len(ov.RecentListings) != 3 || ov.RecentListings[0].ID != "prod_003" {
		t.Fatalf("unexpected recent listings %s", body)
	}
	if len(ov.TopSellers) != 2 || ov.TopSellers[0].ID != "a-maren" || ov.TopSellers[0].ListingCount != 2 {
		t.Fatalf("unexpected top sellers %s", body)
	}
}
