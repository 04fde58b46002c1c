package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Mimesse/fit-coach-hub/internal/config"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := &config.Config{
		JWTSecret:  "testsecret",
		AppBaseURL: "http://localhost:3000",
	}
	RegisterRoutes(app, cfg, nil, redis.NewClient(&redis.Options{}))
	return app
}

// The websocket route must run its own auth, which accepts a token in the
// query string, before the Bearer-only middleware of the /v1 group can
// reject the request. Without an upgrade the ws auth answers 426; a 401
// here means the group middleware shadowed it.
func TestSessionEventsRouteRunsItsOwnAuth(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426 from the websocket auth, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesStillRequireBearerToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trainers/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestPublicContentRoute(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/content/landing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
