package match

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
)

type Repository interface {
    Create(ctx context.Context, m *Match) error
    Get(ctx context.Context, id uuid.UUID) (*Match, error)
    Save(ctx context.Context, m *Match) error
    Delete(ctx context.Context, id uuid.UUID) error
    ListWithEmptyQueues(ctx context.Context) ([]uuid.UUID, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, m *Match) error {
    suggestionsJSON, err := json.Marshal(m.Suggestions)
    if err != nil {
        return fmt.Errorf("failed to marshal suggestions for match %s: %w", m.ID, err)
    }

    query := `
        INSERT INTO matches (
            id, user1_id, user2_id, matched_at,
            mid_lat, mid_lon, distance_meters, suggestions
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        m.ID, m.User1ID, m.User2ID, m.Timestamp,
        m.Midpoint.Lat, m.Midpoint.Lon, m.DistanceMeters, suggestionsJSON,
    ).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*Match, error) {
    query := `
        SELECT id, user1_id, user2_id, matched_at,
               mid_lat, mid_lon, distance_meters, suggestions,
               created_at, updated_at
        FROM matches
        WHERE id = $1
    `

    var m Match
    var suggestionsJSON []byte

    err := r.db.QueryRowxContext(ctx, query, id).Scan(
        &m.ID, &m.User1ID, &m.User2ID, &m.Timestamp,
        &m.Midpoint.Lat, &m.Midpoint.Lon, &m.DistanceMeters, &suggestionsJSON,
        &m.CreatedAt, &m.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, ErrMatchNotFound
    }
    if err != nil {
        return nil, err
    }

    if len(suggestionsJSON) > 0 {
        if err := json.Unmarshal(suggestionsJSON, &m.Suggestions); err != nil {
            return nil, fmt.Errorf("failed to unmarshal suggestions for match %s: %w", m.ID, err)
        }
    }

    return &m, nil
}

// Save persists the suggestion queue. Identity, membership, and geometry
// are immutable after Create.
func (r *postgresRepository) Save(ctx context.Context, m *Match) error {
    suggestionsJSON, err := json.Marshal(m.Suggestions)
    if err != nil {
        return fmt.Errorf("failed to marshal suggestions for match %s: %w", m.ID, err)
    }

    query := `
        UPDATE matches
        SET suggestions = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
        RETURNING updated_at
    `

    err = r.db.QueryRowxContext(ctx, query, m.ID, suggestionsJSON).Scan(&m.UpdatedAt)
    if err == sql.ErrNoRows {
        return ErrMatchNotFound
    }
    return err
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
    return err
}

func (r *postgresRepository) ListWithEmptyQueues(ctx context.Context) ([]uuid.UUID, error) {
    query := `
        SELECT id FROM matches
        WHERE suggestions IS NULL
           OR suggestions = 'null'::jsonb
           OR jsonb_array_length(suggestions) = 0
    `

    rows, err := r.db.QueryxContext(ctx, query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var ids []uuid.UUID
    for rows.Next() {
        var id uuid.UUID
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}
