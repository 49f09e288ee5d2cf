package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a family member. Tasks are assigned to members (or left
// unassigned with a nil member ID).
type Member struct {
	ID          uuid.UUID `json:"id"`
	FamilyID    uuid.UUID `json:"family_id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       *string   `json:"email,omitempty"`
	AvatarColor *string   `json:"avatar_color,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName is the name used in notifications and resolved snapshots.
func (m *Member) DisplayName() string {
	if m.FirstName == "" && m.LastName == "" {
		return m.Username
	}
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// MemberSummary is the denormalized member snapshot embedded in resolved
// schedules and override responses.
type MemberSummary struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AvatarColor *string   `json:"avatar_color,omitempty"`
}

// Summary builds the snapshot form of a member.
func (m *Member) Summary() *MemberSummary {
	if m == nil {
		return nil
	}
	return &MemberSummary{
		ID:          m.ID,
		Username:    m.Username,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		AvatarColor: m.AvatarColor,
	}
}
