package models

// SessionSnapshot is the whole-state view of an authenticated session. Events
// always carry a complete snapshot so subscribers replace rather than merge.
type SessionSnapshot struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

const (
	SessionEventSignedIn        = "signed_in"
	SessionEventSignedOut       = "signed_out"
	SessionEventPasswordChanged = "password_changed"
	SessionEventProfileUpdated  = "profile_updated"
)
