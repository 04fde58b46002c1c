package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/internal/sessionhub"
	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

type stubWSRevoker struct {
	revoked map[string]bool
}

func (s *stubWSRevoker) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func newSessionEventsTestApp(revoker wsTokenRevoker) *fiber.App {
	handler := NewSessionEventsHandler(sessionhub.NewHub(), revoker, "testsecret")

	app := fiber.New()
	app.Get("/api/v1/ws", handler.WebSocketAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	return app
}

func upgradeRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestWebSocketAuthRequiresUpgrade(t *testing.T) {
	app := newSessionEventsTestApp(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthRejectsBadToken(t *testing.T) {
	app := newSessionEventsTestApp(nil)

	resp, err := app.Test(upgradeRequest("/api/v1/ws?token=not-a-token"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthAcceptsQueryToken(t *testing.T) {
	app := newSessionEventsTestApp(&stubWSRevoker{revoked: map[string]bool{}})

	token, err := utils.GenerateToken("7", "student", "testsecret")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	resp, err := app.Test(upgradeRequest("/api/v1/ws?token=" + token))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload := decodeBody(t, resp)
	if payload["user_id"] != "7" || payload["role"] != "student" {
		t.Errorf("unexpected locals: %v", payload)
	}
}

func TestWebSocketAuthRejectsRevokedToken(t *testing.T) {
	token, err := utils.GenerateToken("7", "student", "testsecret")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := utils.ValidateToken(token, "testsecret")
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	app := newSessionEventsTestApp(&stubWSRevoker{revoked: map[string]bool{claims.ID: true}})

	resp, err := app.Test(upgradeRequest("/api/v1/ws?token=" + token))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
