package services

import (
	"context"
	"fmt"
	"time"

	"amora-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvitationStore is the persistence surface for date invitations
type InvitationStore interface {
	Create(ctx context.Context, inv *models.Invitation) error
	ListByParticipant(ctx context.Context, userID string) ([]*models.Invitation, error)
	Respond(ctx context.Context, id, recipientID, status string, responseMessage *string) (*models.Invitation, error)
}

// CreateInvitationInput carries the fields for a new date invitation.
// The recipient is never part of the input; it is always the sender's
// current partner.
type CreateInvitationInput struct {
	Title           string
	Vibe            *string
	DateTime        *time.Time
	Location        *string
	Activity        *string
	PersonalMessage *string
	Photo           *string
}

// InvitationService handles date-invitation business logic
type InvitationService struct {
	invitations InvitationStore
	users       UserStore
	hub         *WSHub
	push        *PushService
}

// NewInvitationService creates a new invitation service
func NewInvitationService(invitations InvitationStore, users UserStore, hub *WSHub, push *PushService) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		users:       users,
		hub:         hub,
		push:        push,
	}
}

// Create sends a new invitation to the caller's partner
func (s *InvitationService) Create(ctx context.Context, senderID string, input CreateInvitationInput) (*models.Invitation, error) {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if sender.PairedWith == nil {
		return nil, ErrNotPaired
	}
	recipientID := *sender.PairedWith

	inv := &models.Invitation{
		ID:              uuid.New().String(),
		SenderID:        senderID,
		RecipientID:     recipientID,
		Title:           input.Title,
		Vibe:            input.Vibe,
		DateTime:        input.DateTime,
		Location:        input.Location,
		Activity:        input.Activity,
		PersonalMessage: input.PersonalMessage,
		Photo:           input.Photo,
		Status:          models.InvitationPending,
		CreatedAt:       time.Now(),
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.notifyRecipient(ctx, inv, sender)

	return inv, nil
}

// notifyRecipient pushes the new invitation over the partner's socket
// when online, or via APNs when a push token is known. Delivery is best
// effort; the invitation row is already committed.
func (s *InvitationService) notifyRecipient(ctx context.Context, inv *models.Invitation, sender *models.User) {
	if s.hub != nil && s.hub.IsOnline(inv.RecipientID) {
		s.hub.NotifyInvitationReceived(inv.RecipientID, inv)
		return
	}

	if s.push == nil || !s.push.Enabled() {
		return
	}
	recipient, err := s.users.GetByID(ctx, inv.RecipientID)
	if err != nil || recipient.PushToken == nil {
		return
	}
	alert := fmt.Sprintf("%s sent you a date invitation 💌", sender.Name)
	if err := s.push.Send(ctx, *recipient.PushToken, "New date invitation", alert); err != nil {
		log.Error().Err(err).Str("recipient_id", inv.RecipientID).Msg("Failed to send invitation push")
	}
}

// List returns invitations the user sent or received, newest first
func (s *InvitationService) List(ctx context.Context, userID string) ([]*models.Invitation, error) {
	return s.invitations.ListByParticipant(ctx, userID)
}

// Respond records the recipient's accept/decline answer and notifies
// the sender.
func (s *InvitationService) Respond(ctx context.Context, id, recipientID, status string, responseMessage *string) (*models.Invitation, error) {
	if status != models.InvitationAccepted && status != models.InvitationDeclined {
		return nil, ErrInvalidStatus
	}

	inv, err := s.invitations.Respond(ctx, id, recipientID, status, responseMessage)
	if err != nil {
		return nil, err
	}

	if s.hub != nil && s.hub.IsOnline(inv.SenderID) {
		s.hub.NotifyInvitationResponse(inv.SenderID, inv)
	}

	return inv, nil
}
