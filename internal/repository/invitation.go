package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amora-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvitationRepository handles database operations for date invitations
type InvitationRepository struct {
	db *pgxpool.Pool
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create creates a new invitation
func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO date_invitations
			(id, sender_id, recipient_id, title, vibe, date_time, location, activity, personal_message, photo, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.SenderID, inv.RecipientID, inv.Title, inv.Vibe, inv.DateTime,
		inv.Location, inv.Activity, inv.PersonalMessage, inv.Photo, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// ListByParticipant retrieves invitations sent or received by the user,
// newest first, with the sender's display fields joined in.
func (r *InvitationRepository) ListByParticipant(ctx context.Context, userID string) ([]*models.Invitation, error) {
	query := `
		SELECT i.id, i.sender_id, i.recipient_id, i.title, i.vibe, i.date_time,
		       i.location, i.activity, i.personal_message, i.photo, i.status,
		       i.response_message, i.responded_at, i.created_at,
		       u.name, u.avatar_url
		FROM date_invitations i
		JOIN users u ON u.id = i.sender_id
		WHERE i.sender_id = $1 OR i.recipient_id = $1
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var senderName string
		err := rows.Scan(
			&inv.ID, &inv.SenderID, &inv.RecipientID, &inv.Title, &inv.Vibe, &inv.DateTime,
			&inv.Location, &inv.Activity, &inv.PersonalMessage, &inv.Photo, &inv.Status,
			&inv.ResponseMessage, &inv.RespondedAt, &inv.CreatedAt,
			&senderName, &inv.SenderAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.SenderName = &senderName
		invitations = append(invitations, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}

	return invitations, nil
}

// Respond records the recipient's answer. The update is scoped to the
// recipient, so responding to someone else's invitation reports
// ErrNotFound.
func (r *InvitationRepository) Respond(ctx context.Context, id, recipientID, status string, responseMessage *string) (*models.Invitation, error) {
	query := `
		UPDATE date_invitations
		SET status = $1, response_message = $2, responded_at = $3
		WHERE id = $4 AND recipient_id = $5
		RETURNING id, sender_id, recipient_id, title, vibe, date_time, location,
		          activity, personal_message, photo, status, response_message,
		          responded_at, created_at
	`
	var inv models.Invitation
	err := r.db.QueryRow(ctx, query, status, responseMessage, time.Now(), id, recipientID).Scan(
		&inv.ID, &inv.SenderID, &inv.RecipientID, &inv.Title, &inv.Vibe, &inv.DateTime,
		&inv.Location, &inv.Activity, &inv.PersonalMessage, &inv.Photo, &inv.Status,
		&inv.ResponseMessage, &inv.RespondedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to respond to invitation: %w", err)
	}
	return &inv, nil
}
