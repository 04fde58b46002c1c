package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mimesse/fit-coach-hub/internal/metrics"
	"github.com/Mimesse/fit-coach-hub/internal/models"
	"github.com/Mimesse/fit-coach-hub/internal/repository"
	"github.com/Mimesse/fit-coach-hub/internal/services"
	"github.com/Mimesse/fit-coach-hub/internal/sessionhub"
	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

// txBeginner is the slice of pgxpool.Pool the register flow needs: user and
// profile rows are inserted in one transaction.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ConfirmEmail(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type trainerProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error)
	GetByCredentialID(ctx context.Context, credentialID string) (*models.TrainerProfile, error)
}

type studentProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
}

type authTokenStore interface {
	CreateResetToken(ctx context.Context, userID int64) (string, error)
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
	CreateConfirmToken(ctx context.Context, userID int64) (string, error)
	ConsumeConfirmToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type sessionBroadcaster interface {
	Broadcast(event *sessionhub.Event)
}

type AuthHandler struct {
	db          txBeginner
	userRepo    userStore
	trainerRepo trainerProfileStore
	studentRepo studentProfileStore
	tokens      authTokenStore
	mailer      services.Mailer
	hub         sessionBroadcaster
	metrics     metrics.Recorder
	jwtSecret   string
	appBaseURL  string
}

func NewAuthHandler(
	db txBeginner,
	userRepo userStore,
	trainerRepo trainerProfileStore,
	studentRepo studentProfileStore,
	tokens authTokenStore,
	mailer services.Mailer,
	hub sessionBroadcaster,
	recorder metrics.Recorder,
	jwtSecret string,
	appBaseURL string,
) *AuthHandler {
	return &AuthHandler{
		db:          db,
		userRepo:    userRepo,
		trainerRepo: trainerRepo,
		studentRepo: studentRepo,
		tokens:      tokens,
		mailer:      mailer,
		hub:         hub,
		metrics:     recorder,
		jwtSecret:   jwtSecret,
		appBaseURL:  appBaseURL,
	}
}

type registerRequest struct {
	Email        string `json:"email"`
	ConfirmEmail string `json:"confirm_email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	CredentialID string `json:"credential_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	if fieldErrors := validateRegisterRequest(&req); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrors})
	}

	// Pre-flight uniqueness reads are a UX shortcut only; the unique
	// constraints below remain the arbiter under concurrent sign-ups.
	existing, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgEmailTaken})
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
	}

	if req.Role == models.RoleTrainer {
		bound, err := h.trainerRepo.GetByCredentialID(c.Context(), req.CredentialID)
		if err == nil && bound != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgCredentialTaken})
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
	}

	tx, err := h.db.Begin(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
	}
	defer func() {
		_ = tx.Rollback(c.Context())
	}()

	txUserRepo := repository.NewUserRepository(tx)
	if err := txUserRepo.CreateUser(c.Context(), user); err != nil {
		return mapRegisterConstraintError(c, err)
	}

	if req.Role == models.RoleTrainer {
		txTrainerRepo := repository.NewTrainerProfileRepository(tx)
		if err := txTrainerRepo.Create(c.Context(), user.ID, req.FullName, req.CredentialID); err != nil {
			return mapRegisterConstraintError(c, err)
		}
	} else {
		txStudentRepo := repository.NewStudentProfileRepository(tx)
		if err := txStudentRepo.Create(c.Context(), user.ID, req.FullName); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
		}
	}

	if err := tx.Commit(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
	}

	h.metrics.RecordRegistration(user.Role)
	h.dispatchConfirmationEmail(c.Context(), user)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Conta criada! Confirme seu email antes de entrar.",
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	if fieldErrors := validateLoginRequest(&req); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrors})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.metrics.RecordLogin(false)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msgBadCredentials})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignInFailed})
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		h.metrics.RecordLogin(false)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msgBadCredentials})
	}

	if !user.EmailConfirmed {
		h.metrics.RecordLogin(false)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msgEmailNotConfirmed})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignInFailed})
	}

	profile, err := h.profileFor(c.Context(), user)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignInFailed})
	}

	h.metrics.RecordLogin(true)
	h.hub.Broadcast(sessionhub.NewEvent(models.SessionEventSignedIn, snapshotFor(user)))

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"profile": profile,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	jti, _ := c.Locals("token_id").(string)
	ttl, _ := c.Locals("token_ttl").(time.Duration)
	if jti != "" {
		if err := h.tokens.RevokeToken(c.Context(), jti, ttl); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgGeneric})
		}
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err == nil {
		h.hub.Broadcast(sessionhub.NewEvent(models.SessionEventSignedOut, snapshotFor(user)))
	}

	return c.JSON(fiber.Map{"message": "Sessão encerrada."})
}

// Me resolves the caller's role from the profile row, the secondary fetch
// role-dependent navigation waits on.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgGeneric})
	}

	profile, err := h.profileFor(c.Context(), user)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgGeneric})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"profile": profile,
	})
}

func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgBadConfirmLink})
	}

	userID, err := h.tokens.ConsumeConfirmToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgBadConfirmLink})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgGeneric})
	}

	if err := h.userRepo.ConfirmEmail(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgGeneric})
	}

	return c.JSON(fiber.Map{"message": "Email confirmado! Você já pode entrar."})
}

// ForgotPassword answers identically whether or not the address belongs to an
// account, so the endpoint cannot be used to enumerate emails.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	req.Email = normalizeEmail(req.Email)
	if utils.ValidateEmail(req.Email) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"email": msgInvalidEmail}})
	}

	h.metrics.RecordPasswordResetRequested()

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err == nil && user != nil {
		h.dispatchResetEmail(c.Context(), user)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("forgot password lookup: %v", err)
	}

	return c.JSON(fiber.Map{
		"message": "Se o email estiver cadastrado, você receberá um link de recuperação.",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidBody})
	}

	// Field validation runs before the token is consumed; a mistyped
	// confirmation must not burn the single-use link.
	if fieldErrors := validateResetPasswordRequest(&req); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrors})
	}

	if req.Token == "" {
		return invalidResetToken(c)
	}

	userID, err := h.tokens.ConsumeResetToken(c.Context(), req.Token)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			return invalidResetToken(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgResetFailed})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgResetFailed})
	}

	if err := h.userRepo.UpdatePassword(c.Context(), userID, hashed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgResetFailed})
	}

	h.metrics.RecordPasswordResetCompleted()

	if user, err := h.userRepo.GetByID(c.Context(), userID); err == nil {
		h.hub.Broadcast(sessionhub.NewEvent(models.SessionEventPasswordChanged, snapshotFor(user)))
	}

	return c.JSON(fiber.Map{"message": "Senha redefinida! Sua senha foi alterada com sucesso."})
}

func (h *AuthHandler) profileFor(ctx context.Context, user *models.User) (any, error) {
	if user.Role == models.RoleTrainer {
		return h.trainerRepo.GetByUserID(ctx, user.ID)
	}
	return h.studentRepo.GetByUserID(ctx, user.ID)
}

func (h *AuthHandler) dispatchConfirmationEmail(ctx context.Context, user *models.User) {
	token, err := h.tokens.CreateConfirmToken(ctx, user.ID)
	if err != nil {
		log.Printf("create confirm token for user %d: %v", user.ID, err)
		return
	}
	link := h.appBaseURL + "/confirm-email?token=" + token
	if h.mailer == nil {
		log.Printf("mailer not configured, confirmation link for user %d: %s", user.ID, link)
		return
	}
	if err := h.mailer.SendEmailConfirmation(user.Email, link); err != nil {
		log.Printf("send confirmation email to user %d: %v", user.ID, err)
	}
}

func (h *AuthHandler) dispatchResetEmail(ctx context.Context, user *models.User) {
	token, err := h.tokens.CreateResetToken(ctx, user.ID)
	if err != nil {
		log.Printf("create reset token for user %d: %v", user.ID, err)
		return
	}
	link := h.appBaseURL + "/reset-password?token=" + token
	if h.mailer == nil {
		log.Printf("mailer not configured, reset link for user %d: %s", user.ID, link)
		return
	}
	if err := h.mailer.SendPasswordReset(user.Email, link); err != nil {
		log.Printf("send reset email to user %d: %v", user.ID, err)
	}
}

func mapRegisterConstraintError(c *fiber.Ctx, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "trainer_profiles_cref_key" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgCredentialTaken})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgEmailTaken})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgSignUpFailed})
}

func invalidResetToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Link inválido ou expirado. Solicite um novo link de recuperação de senha.",
		"code":  "invalid_reset_token",
	})
}

func snapshotFor(user *models.User) models.SessionSnapshot {
	return models.SessionSnapshot{
		UserID: strconv.FormatInt(user.ID, 10),
		Email:  user.Email,
		Role:   user.Role,
	}
}

func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
