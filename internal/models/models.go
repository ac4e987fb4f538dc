package models

import (
	"encoding/json"
	"time"
)

// User represents a registered user in the system
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	PushToken    *string    `json:"push_token,omitempty"`
	InviteCode   *string    `json:"invite_code,omitempty"`
	PairedWith   *string    `json:"paired_with,omitempty"`
	PairingDate  *time.Time `json:"pairing_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PartnerInfo is the subset of a user's profile exposed to their partner
type PartnerInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Memory represents a shared memory created by one half of a couple
type Memory struct {
	ID          string    `json:"id"`
	CreatedBy   string    `json:"created_by"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	MemoryDate  time.Time `json:"memory_date"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invitation statuses
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation represents a date invitation sent to the sender's partner
type Invitation struct {
	ID              string     `json:"id"`
	SenderID        string     `json:"sender_id"`
	RecipientID     string     `json:"recipient_id"`
	Title           string     `json:"title"`
	Vibe            *string    `json:"vibe,omitempty"`
	DateTime        *time.Time `json:"date_time,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Activity        *string    `json:"activity,omitempty"`
	PersonalMessage *string    `json:"personal_message,omitempty"`
	Photo           *string    `json:"photo,omitempty"`
	Status          string     `json:"status"`
	ResponseMessage *string    `json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Populated on list queries so the client can render who sent it.
	SenderName   *string `json:"sender_name,omitempty"`
	SenderAvatar *string `json:"sender_avatar,omitempty"`
}

// Design represents a saved greeting-card design
type Design struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Title      string          `json:"title"`
	DesignData json.RawMessage `json:"design_data"`
	IsShared   bool            `json:"is_shared"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
