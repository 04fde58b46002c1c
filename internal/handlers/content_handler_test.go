package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGetLandingContent(t *testing.T) {
	handler := NewContentHandler()

	app := fiber.New()
	app.Get("/api/content/landing", handler.GetLandingContent)

	req := httptest.NewRequest(http.MethodGet, "/api/content/landing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload := decodeBody(t, resp)
	hero, _ := payload["hero"].(map[string]any)
	if hero["title"] != "TRANSFORME SEU CORPO" {
		t.Errorf("unexpected hero title: %v", hero["title"])
	}

	steps, _ := payload["how_it_works"].([]any)
	if len(steps) != 4 {
		t.Errorf("expected 4 steps, got %d", len(steps))
	}

	pricing, _ := payload["pricing"].(map[string]any)
	if pricing["price_monthly"] != 29.90 {
		t.Errorf("unexpected monthly price: %v", pricing["price_monthly"])
	}
	if pricing["currency"] != "BRL" {
		t.Errorf("unexpected currency: %v", pricing["currency"])
	}
}
