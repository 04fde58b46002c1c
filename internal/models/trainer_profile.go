package models

import "time"

type TrainerProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	FullName        *string   `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url"`
	Bio             *string   `json:"bio"`
	Specialties     *[]string `json:"specialties"`
	PricePerSession *float64  `json:"price_per_session"`
	Location        *string   `json:"location"`
	Phone           *string   `json:"phone"`
	CredentialID    *string   `json:"cref"`
	Rating          *float64  `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StudentProfile holds the lighter profile row created for student accounts.
type StudentProfile struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrainerCardResponse is the public listing card shown on the landing page.
type TrainerCardResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	Location        string   `json:"location,omitempty"`
	Rating          float64  `json:"rating"`
	TotalReviews    int      `json:"total_reviews"`
	Specialties     []string `json:"specialties"`
	PricePerSession float64  `json:"price_per_session"`
	Verified        bool     `json:"verified"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
