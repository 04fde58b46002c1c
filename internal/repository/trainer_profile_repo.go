package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mimesse/fit-coach-hub/internal/models"
)

type TrainerProfileRepository struct {
	db DBTX
}

func NewTrainerProfileRepository(db DBTX) *TrainerProfileRepository {
	return &TrainerProfileRepository{db: db}
}

// Create inserts the trainer's profile row at registration time. The cref
// column is written here and nowhere else; profile updates never touch it.
func (r *TrainerProfileRepository) Create(ctx context.Context, userID int64, fullName, credentialID string) error {
	query := `INSERT INTO trainer_profiles (user_id, full_name, cref) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, userID, fullName, credentialID)
	return err
}

func (r *TrainerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, bio, specialties, price_per_session,
			   location, phone, cref, rating, total_reviews, is_verified, created_at, updated_at
		FROM trainer_profiles
		WHERE user_id = $1
	`
	var profile models.TrainerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.PricePerSession,
		&profile.Location,
		&profile.Phone,
		&profile.CredentialID,
		&profile.Rating,
		&profile.TotalReviews,
		&profile.IsVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TrainerProfileRepository) GetByCredentialID(ctx context.Context, credentialID string) (*models.TrainerProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, bio, specialties, price_per_session,
			   location, phone, cref, rating, total_reviews, is_verified, created_at, updated_at
		FROM trainer_profiles
		WHERE cref = $1
	`
	var profile models.TrainerProfile
	err := r.db.QueryRow(ctx, query, credentialID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.PricePerSession,
		&profile.Location,
		&profile.Phone,
		&profile.CredentialID,
		&profile.Rating,
		&profile.TotalReviews,
		&profile.IsVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateTrainerProfileInput struct {
	FullName        *string
	AvatarURL       *string
	Bio             *string
	Specialties     *[]string
	PricePerSession *float64
	Location        *string
	Phone           *string
}

func (r *TrainerProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateTrainerProfileInput) (*models.TrainerProfile, error) {
	query := `
		UPDATE trainer_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			bio = COALESCE($3, bio),
			specialties = COALESCE($4, specialties),
			price_per_session = COALESCE($5, price_per_session),
			location = COALESCE($6, location),
			phone = COALESCE($7, phone),
			updated_at = NOW()
		WHERE user_id = $8
		RETURNING id, user_id, full_name, avatar_url, bio, specialties, price_per_session,
				  location, phone, cref, rating, total_reviews, is_verified, created_at, updated_at
	`
	var profile models.TrainerProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.Bio,
		req.Specialties,
		req.PricePerSession,
		req.Location,
		req.Phone,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.PricePerSession,
		&profile.Location,
		&profile.Phone,
		&profile.CredentialID,
		&profile.Rating,
		&profile.TotalReviews,
		&profile.IsVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type TrainerListFilter struct {
	City      string
	Specialty string
	MinRating float64
	MaxPrice  float64
	Offset    int
	Limit     int
}

func (r *TrainerProfileRepository) List(ctx context.Context, filter TrainerListFilter) ([]models.TrainerProfile, int, error) {
	conditions := []string{"full_name IS NOT NULL"}
	args := []any{}

	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.Specialty != "" {
		args = append(args, filter.Specialty)
		conditions = append(conditions, fmt.Sprintf("$%d ILIKE ANY(specialties)", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price_per_session <= $%d", len(args)))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM trainer_profiles " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, full_name, avatar_url, bio, specialties, price_per_session,
			   location, phone, cref, rating, total_reviews, is_verified, created_at, updated_at
		FROM trainer_profiles
		%s
		ORDER BY rating DESC NULLS LAST, total_reviews DESC, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := []models.TrainerProfile{}
	for rows.Next() {
		var profile models.TrainerProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.AvatarURL,
			&profile.Bio,
			&profile.Specialties,
			&profile.PricePerSession,
			&profile.Location,
			&profile.Phone,
			&profile.CredentialID,
			&profile.Rating,
			&profile.TotalReviews,
			&profile.IsVerified,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
