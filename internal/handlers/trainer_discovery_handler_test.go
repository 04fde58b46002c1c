package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/internal/models"
	"github.com/Mimesse/fit-coach-hub/internal/repository"
)

type stubTrainerDirectory struct {
	lastFilter repository.TrainerListFilter
	trainers   []models.TrainerProfile
	total      int
}

func (s *stubTrainerDirectory) List(_ context.Context, filter repository.TrainerListFilter) ([]models.TrainerProfile, int, error) {
	s.lastFilter = filter
	return s.trainers, s.total, nil
}

func sampleTrainerProfile(userID int64, name, location string, rating, price float64, specialties []string) models.TrainerProfile {
	return models.TrainerProfile{
		UserID:          userID,
		FullName:        &name,
		Location:        &location,
		Rating:          &rating,
		PricePerSession: &price,
		Specialties:     &specialties,
		TotalReviews:    10,
		IsVerified:      true,
	}
}

func TestListTrainersAppliesFilters(t *testing.T) {
	directory := &stubTrainerDirectory{
		trainers: []models.TrainerProfile{
			sampleTrainerProfile(1, "Lucas Mendes", "São Paulo, SP - Zona Sul", 4.9, 120, []string{"Musculação"}),
		},
		total: 1,
	}
	handler := NewTrainerDiscoveryHandler(directory)

	app := fiber.New()
	app.Get("/api/trainers", handler.ListTrainers)

	req := httptest.NewRequest(http.MethodGet, "/api/trainers?city=S%C3%A3o+Paulo&specialty=Yoga&min_rating=4.5&max_price=150&page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	filter := directory.lastFilter
	if filter.City != "São Paulo" || filter.Specialty != "Yoga" {
		t.Errorf("unexpected text filters: %+v", filter)
	}
	if filter.MinRating != 4.5 || filter.MaxPrice != 150 {
		t.Errorf("unexpected numeric filters: %+v", filter)
	}
	if filter.Offset != 5 || filter.Limit != 5 {
		t.Errorf("unexpected paging: %+v", filter)
	}

	payload := decodeBody(t, resp)
	trainers, _ := payload["trainers"].([]any)
	if len(trainers) != 1 {
		t.Fatalf("expected one trainer card, got %v", payload["trainers"])
	}
	card, _ := trainers[0].(map[string]any)
	if card["name"] != "Lucas Mendes" {
		t.Errorf("unexpected card: %v", card)
	}
	if card["verified"] != true {
		t.Errorf("expected a verified card, got %v", card)
	}
}

func TestListTrainersDefaultsAndCaps(t *testing.T) {
	directory := &stubTrainerDirectory{}
	handler := NewTrainerDiscoveryHandler(directory)

	app := fiber.New()
	app.Get("/api/trainers", handler.ListTrainers)

	req := httptest.NewRequest(http.MethodGet, "/api/trainers?page=-3&limit=500", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	filter := directory.lastFilter
	if filter.Offset != 0 {
		t.Errorf("expected first page for an invalid page value, got offset %d", filter.Offset)
	}
	if filter.Limit != maxPageLimit {
		t.Errorf("expected limit capped at %d, got %d", maxPageLimit, filter.Limit)
	}
}

func TestListTrainersRejectsBadNumericFilters(t *testing.T) {
	directory := &stubTrainerDirectory{}
	handler := NewTrainerDiscoveryHandler(directory)

	app := fiber.New()
	app.Get("/api/trainers", handler.ListTrainers)

	req := httptest.NewRequest(http.MethodGet, "/api/trainers?min_rating=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := buildPaginationMeta(2, 10, 25)
	if meta.TotalPages != 3 {
		t.Errorf("expected 3 pages for 25 rows of 10, got %d", meta.TotalPages)
	}
	if meta.Page != 2 || meta.Limit != 10 || meta.Total != 25 {
		t.Errorf("unexpected meta: %+v", meta)
	}

	if got := buildPaginationMeta(1, 10, 0).TotalPages; got != 0 {
		t.Errorf("expected 0 pages for an empty result, got %d", got)
	}
}
