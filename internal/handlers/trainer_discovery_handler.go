package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/internal/models"
	"github.com/Mimesse/fit-coach-hub/internal/repository"
)

type trainerListRepository interface {
	List(ctx context.Context, filter repository.TrainerListFilter) ([]models.TrainerProfile, int, error)
}

// TrainerDiscoveryHandler serves the public listing behind the landing
// page's trainer grid. No authentication: it is marketing surface.
type TrainerDiscoveryHandler struct {
	trainerRepo trainerListRepository
}

func NewTrainerDiscoveryHandler(trainerRepo trainerListRepository) *TrainerDiscoveryHandler {
	return &TrainerDiscoveryHandler{trainerRepo: trainerRepo}
}

func (h *TrainerDiscoveryHandler) ListTrainers(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	minRating, err := parseNonNegativeFloat(c.Query("min_rating"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_rating must be a valid non-negative number"})
	}
	maxPrice, err := parseNonNegativeFloat(c.Query("max_price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_price must be a valid non-negative number"})
	}

	trainers, total, err := h.trainerRepo.List(c.Context(), repository.TrainerListFilter{
		City:      strings.TrimSpace(c.Query("city")),
		Specialty: strings.TrimSpace(c.Query("specialty")),
		MinRating: minRating,
		MaxPrice:  maxPrice,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainers"})
	}

	response := make([]models.TrainerCardResponse, 0, len(trainers))
	for _, trainer := range trainers {
		response = append(response, buildTrainerCard(trainer))
	}

	return c.JSON(fiber.Map{
		"trainers":   response,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func buildTrainerCard(profile models.TrainerProfile) models.TrainerCardResponse {
	card := models.TrainerCardResponse{
		ID:           strconv.FormatInt(profile.UserID, 10),
		TotalReviews: profile.TotalReviews,
		Verified:     profile.IsVerified,
		Specialties:  []string{},
	}
	if profile.FullName != nil {
		card.Name = *profile.FullName
	}
	if profile.AvatarURL != nil {
		card.AvatarURL = *profile.AvatarURL
	}
	if profile.Location != nil {
		card.Location = *profile.Location
	}
	if profile.Rating != nil {
		card.Rating = *profile.Rating
	}
	if profile.Specialties != nil {
		card.Specialties = *profile.Specialties
	}
	if profile.PricePerSession != nil {
		card.PricePerSession = *profile.PricePerSession
	}
	return card
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseNonNegativeFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0, strconv.ErrSyntax
	}
	return parsed, nil
}
