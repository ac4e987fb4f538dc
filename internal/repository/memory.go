package repository

import (
	"context"
	"fmt"

	"amora-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MemoryRepository handles database operations for memories
type MemoryRepository struct {
	db *pgxpool.Pool
}

// NewMemoryRepository creates a new memory repository
func NewMemoryRepository(db *pgxpool.Pool) *MemoryRepository {
	return &MemoryRepository{db: db}
}

// Create creates a new memory
func (r *MemoryRepository) Create(ctx context.Context, memory *models.Memory) error {
	query := `
		INSERT INTO memories (id, created_by, title, description, image_url, memory_date, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		memory.ID, memory.CreatedBy, memory.Title, memory.Description,
		memory.ImageURL, memory.MemoryDate, memory.Category, memory.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}
	return nil
}

// ListByCreators retrieves memories created by any of the given users,
// newest memory date first.
func (r *MemoryRepository) ListByCreators(ctx context.Context, creatorIDs []string) ([]*models.Memory, error) {
	query := `
		SELECT id, created_by, title, description, image_url, memory_date, category, created_at
		FROM memories
		WHERE created_by = ANY($1)
		ORDER BY memory_date DESC
	`
	rows, err := r.db.Query(ctx, query, creatorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	memories := []*models.Memory{}
	for rows.Next() {
		var m models.Memory
		err := rows.Scan(
			&m.ID, &m.CreatedBy, &m.Title, &m.Description,
			&m.ImageURL, &m.MemoryDate, &m.Category, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}

	return memories, nil
}

// Delete removes a memory owned by the given user. Deleting a row that
// does not exist under the caller's scope is not an error.
func (r *MemoryRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM memories WHERE id = $1 AND created_by = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}
