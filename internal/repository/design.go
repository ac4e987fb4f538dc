package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amora-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DesignRepository handles database operations for card designs
type DesignRepository struct {
	db *pgxpool.Pool
}

// NewDesignRepository creates a new design repository
func NewDesignRepository(db *pgxpool.Pool) *DesignRepository {
	return &DesignRepository{db: db}
}

const designColumns = `id, user_id, title, design_data, is_shared, created_at, updated_at`

func scanDesign(row pgx.Row) (*models.Design, error) {
	var d models.Design
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.DesignData, &d.IsShared, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan design: %w", err)
	}
	return &d, nil
}

// Create creates a new design
func (r *DesignRepository) Create(ctx context.Context, design *models.Design) error {
	query := `
		INSERT INTO card_designs (id, user_id, title, design_data, is_shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		design.ID, design.UserID, design.Title, design.DesignData,
		design.IsShared, design.CreatedAt, design.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create design: %w", err)
	}
	return nil
}

// GetByID retrieves one design within the owner's scope
func (r *DesignRepository) GetByID(ctx context.Context, id, userID string) (*models.Design, error) {
	query := `SELECT ` + designColumns + ` FROM card_designs WHERE id = $1 AND user_id = $2`
	return scanDesign(r.db.QueryRow(ctx, query, id, userID))
}

// ListByUser retrieves the user's designs, most recently updated first
func (r *DesignRepository) ListByUser(ctx context.Context, userID string) ([]*models.Design, error) {
	query := `SELECT ` + designColumns + ` FROM card_designs WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := []*models.Design{}
	for rows.Next() {
		var d models.Design
		err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.DesignData, &d.IsShared, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating designs: %w", err)
	}

	return designs, nil
}

// Update applies a partial update within the owner's scope. Nil fields
// keep their stored value. Reports ErrNotFound when no row matches.
func (r *DesignRepository) Update(ctx context.Context, id, userID string, title *string, designData json.RawMessage) (*models.Design, error) {
	query := `
		UPDATE card_designs
		SET title = COALESCE($1, title),
		    design_data = COALESCE($2, design_data),
		    updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + designColumns
	return scanDesign(r.db.QueryRow(ctx, query, title, designData, time.Now(), id, userID))
}

// Delete removes a design within the owner's scope. Absent rows are not
// an error.
func (r *DesignRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM card_designs WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	return nil
}
