package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amora-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, avatar_url, push_token, invite_code, paired_with, pairing_date, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.AvatarURL,
		&user.PushToken, &user.InviteCode, &user.PairedWith, &user.PairingDate, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile updates name and/or avatar and returns the fresh row
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, name, avatarURL *string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name), avatar_url = COALESCE($2, avatar_url)
		WHERE id = $3
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, name, avatarURL, userID))
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// AssignInviteCode sets a user's invite code if they do not have one yet.
// The unique index on invite_code is the only collision check; a taken
// code reports ErrCodeTaken so the service can retry with a fresh one.
func (r *UserRepository) AssignInviteCode(ctx context.Context, userID, code string) error {
	query := `UPDATE users SET invite_code = $1 WHERE id = $2 AND invite_code IS NULL`
	result, err := r.db.Exec(ctx, query, code, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to assign invite code: %w", err)
	}
	if result.RowsAffected() == 0 {
		// The user already has a code; the caller re-reads it.
		return nil
	}
	return nil
}

// PairByInviteCode atomically links the caller with the owner of the
// invite code. The match is case-insensitive. Both rows are locked, the
// symmetric paired_with links are written, and pairing_date is stamped
// on both sides.
func (r *UserRepository) PairByInviteCode(ctx context.Context, userID, code string) (*models.PartnerInfo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin pairing transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var partner models.PartnerInfo
	var partnerPaired *string
	err = tx.QueryRow(ctx, `
		SELECT id, name, avatar_url, paired_with
		FROM users
		WHERE upper(invite_code) = upper($1)
		FOR UPDATE
	`, code).Scan(&partner.ID, &partner.Name, &partner.AvatarURL, &partnerPaired)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if partner.ID == userID {
		return nil, ErrSelfPairing
	}
	if partnerPaired != nil {
		return nil, ErrPartnerAlreadyPaired
	}

	var selfPaired *string
	err = tx.QueryRow(ctx, `SELECT paired_with FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&selfPaired)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}
	if selfPaired != nil {
		return nil, ErrAlreadyPaired
	}

	now := time.Now()
	if _, err := tx.Exec(ctx, `UPDATE users SET paired_with = $1, pairing_date = $2 WHERE id = $3`, partner.ID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to link user: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET paired_with = $1, pairing_date = $2 WHERE id = $3`, userID, now, partner.ID); err != nil {
		return nil, fmt.Errorf("failed to link partner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pairing transaction: %w", err)
	}
	return &partner, nil
}

// Unpair clears both sides of the caller's pairing link in one
// transaction. Returns the former partner's id, empty when the caller
// was not paired.
func (r *UserRepository) Unpair(ctx context.Context, userID string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin unpair transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var partnerID *string
	err = tx.QueryRow(ctx, `SELECT paired_with FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&partnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to lock user row: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET paired_with = NULL, pairing_date = NULL WHERE id = $1`, userID); err != nil {
		return "", fmt.Errorf("failed to unpair user: %w", err)
	}
	if partnerID != nil {
		if _, err := tx.Exec(ctx, `UPDATE users SET paired_with = NULL, pairing_date = NULL WHERE id = $1`, *partnerID); err != nil {
			return "", fmt.Errorf("failed to unpair partner: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit unpair transaction: %w", err)
	}
	if partnerID == nil {
		return "", nil
	}
	return *partnerID, nil
}
