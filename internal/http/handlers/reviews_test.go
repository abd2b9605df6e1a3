package handlers_test

import (
	"net/http"
	"testing"
)

type detailReviews struct {
	Reviews []struct {
		Rating            int    `json:"rating"`
		Comment           string `json:"comment"`
		AuthorDisplayName string `json:"authorDisplayName"`
	} `json:"reviews"`
}

func TestGuestReviewNeedsNameAndEmail(t *testing.T) {
	app, _ := newTestApp(t, false)

	resp, _ := do(t, app, "POST", "/api/v1/listings/prod_002/reviews", map[string]any{"rating": 5, "comment": "Sturdy"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("anonymous review: expected 400, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, "POST", "/api/v1/listings/prod_002/reviews", map[string]any{"rating": 9, "firstName": "Pat", "email": "pat@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad rating: expected 400, got %d", resp.StatusCode)
	}

	_, body := do(t, app, "GET", "/api/v1/listings/prod_002", nil)
	var view detailReviews
	decode(t, body, &view)
	if len(view.Reviews) != 0 {
		t.Fatalf("rejected reviews were stored: %+v", view.Reviews)
	}

	resp, body = do(t, app, "POST", "/api/v1/listings/prod_002/reviews",
		map[string]any{"rating": 4, "comment": " Sturdy ", "firstName": "Pat", "email": "pat@example.com"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("guest review: expected 201, got %d %s", resp.StatusCode, body)
	}

	_, body = do(t, app, "GET", "/api/v1/listings/prod_002", nil)
	decode(t, body, &view)
	if len(view.Reviews) != 1 || view.Reviews[0].AuthorDisplayName != "Pat" || view.Reviews[0].Comment != "Sturdy" {
		t.Fatalf("unexpected reviews %+v", view.Reviews)
	}
}

func TestLoggedInReviewUsesSessionAuthor(t *testing.T) {
	app, _ := newTestApp(t, false)
	ivo := login(t, app, ivoEmail)

	resp, body := do(t, app, "POST", "/api/v1/listings/prod_001/reviews", map[string]any{"rating": 5}, ivo)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", resp.StatusCode, body)
	}

	_, body = do(t, app, "GET", "/api/v1/listings/prod_001", nil)
	var view detailReviews
	decode(t, body, &view)
	if len(view.Reviews) != 1 || view.Reviews[0].AuthorDisplayName != "ivo.smith" {
		t.Fatalf("unexpected reviews %+v", view.Reviews)
	}
}

func TestReviewOnMissingListing(t *testing.T) {
	app, _ := newTestApp(t, false)
	ivo := login(t, app, ivoEmail)
	resp, _ := do(t, app, "POST", "/api/v1/listings/prod_404/reviews", map[string]any{"rating": 3}, ivo)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
