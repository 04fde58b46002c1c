package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mimesse/fit-coach-hub/internal/metrics"
	"github.com/Mimesse/fit-coach-hub/internal/models"
	"github.com/Mimesse/fit-coach-hub/internal/repository"
	"github.com/Mimesse/fit-coach-hub/internal/services"
	"github.com/Mimesse/fit-coach-hub/internal/sessionhub"
	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type trainerProfileEditor interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateTrainerProfileInput) (*models.TrainerProfile, error)
}

type ProfileHandler struct {
	trainerRepo    trainerProfileEditor
	storageService services.StorageService
	hub            sessionBroadcaster
	metrics        metrics.Recorder
}

func NewProfileHandler(
	trainerRepo trainerProfileEditor,
	storageService services.StorageService,
	hub sessionBroadcaster,
	recorder metrics.Recorder,
) *ProfileHandler {
	return &ProfileHandler{
		trainerRepo:    trainerRepo,
		storageService: storageService,
		hub:            hub,
		metrics:        recorder,
	}
}

// updateTrainerProfileRequest carries every mutable profile field. The cref
// is deliberately absent: it is write-once at registration.
type updateTrainerProfileRequest struct {
	FullName         *string   `json:"full_name"`
	AvatarURL        *string   `json:"avatar_url"`
	Bio              *string   `json:"bio"`
	Specialties      *[]string `json:"specialties"`
	SpecialtiesInput *string   `json:"specialties_input"`
	PricePerSession  *float64  `json:"price_per_session"`
	Location         *string   `json:"location"`
	Phone            *string   `json:"phone"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.trainerRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateTrainerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	// The editor submits specialties as one comma-delimited string; split,
	// trim, and drop empty tokens while keeping the order typed.
	if req.SpecialtiesInput != nil {
		specialties := utils.SplitListInput(*req.SpecialtiesInput)
		req.Specialties = &specialties
	}

	if validationErr := validateTrainerProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.trainerRepo.UpdatePartial(c.Context(), userID, repository.UpdateTrainerProfileInput{
		FullName:        req.FullName,
		AvatarURL:       req.AvatarURL,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		PricePerSession: req.PricePerSession,
		Location:        req.Location,
		Phone:           req.Phone,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao salvar perfil"})
	}

	h.broadcastProfileUpdated(c)

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	// Random suffix rather than a timestamp: two uploads for the same user
	// can land in the same millisecond from different devices.
	filename := fmt.Sprintf("%d-%s%s", userID, uuid.NewString(), ext)
	avatarURL, err := h.storageService.UploadFile(c.Context(), file, filename, "trainers/avatars")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao fazer upload da imagem"})
	}

	currentProfile, err := h.trainerRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	previousURL := ""
	if currentProfile.AvatarURL != nil {
		previousURL = *currentProfile.AvatarURL
	}

	profile, err := h.trainerRepo.UpdatePartial(c.Context(), userID, repository.UpdateTrainerProfileInput{
		AvatarURL: &avatarURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	// Only once the row points at the new object; a failed update must not
	// leave the profile referencing a deleted file.
	if previousURL != "" && previousURL != avatarURL {
		_ = h.storageService.DeleteFile(c.Context(), previousURL)
	}

	h.metrics.RecordAvatarUpload()
	h.broadcastProfileUpdated(c)

	return c.JSON(fiber.Map{
		"avatar_url": avatarURL,
		"profile":    profile,
	})
}

func (h *ProfileHandler) broadcastProfileUpdated(c *fiber.Ctx) {
	userIDStr, _ := c.Locals("user_id").(string)
	h.hub.Broadcast(sessionhub.NewEvent(models.SessionEventProfileUpdated, models.SessionSnapshot{
		UserID: userIDStr,
		Role:   models.RoleTrainer,
	}))
}

func validateTrainerProfileUpdateRequest(req updateTrainerProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Specialties != nil {
		for _, specialty := range *req.Specialties {
			if strings.TrimSpace(specialty) == "" {
				return "specialties must not contain empty values"
			}
		}
	}
	if req.PricePerSession != nil && *req.PricePerSession < 0 {
		return "price_per_session must be 0 or greater"
	}
	return ""
}
