package models

// User is a ticket purchaser identified by a unique, email-shaped address.
// Traits has no authentication system of its own beyond this identifier
// (spec.md Non-goals); the admin JWT login introduced by the authority
// layer is plumbing for operator-only operations, not user auth.
type User struct {
	UserID  int64  `db:"user_id" json:"userId"`
	Details string `db:"details" json:"details,omitempty"`
	Email   string `db:"email" json:"email"`
}
