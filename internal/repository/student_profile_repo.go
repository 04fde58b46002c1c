package repository

import (
	"context"

	"github.com/Mimesse/fit-coach-hub/internal/models"
)

type StudentProfileRepository struct {
	db DBTX
}

func NewStudentProfileRepository(db DBTX) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

func (r *StudentProfileRepository) Create(ctx context.Context, userID int64, fullName string) error {
	query := `INSERT INTO student_profiles (user_id, full_name) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, fullName)
	return err
}

func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, created_at, updated_at
		FROM student_profiles
		WHERE user_id = $1
	`
	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
