package user

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
)

type Repository interface {
    Create(ctx context.Context, u *User) error
    Get(ctx context.Context, id uuid.UUID) (*User, error)
    Save(ctx context.Context, u *User) error
    ListInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*User, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

const userColumns = `
    id, name, current_lat, current_lon, predominant_lat, predominant_lon,
    tastes, candidates, pending_likes, matches, match_blacklist,
    created_at, updated_at
`

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
    blobs, err := marshalUserBlobs(u)
    if err != nil {
        return err
    }

    query := `
        INSERT INTO users (
            id, name, current_lat, current_lon, predominant_lat, predominant_lon,
            tastes, candidates, pending_likes, matches, match_blacklist
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        u.ID, u.Name,
        u.CurrentLocation.Lat, u.CurrentLocation.Lon,
        u.PredominantLocation.Lat, u.PredominantLocation.Lon,
        blobs.tastes, blobs.candidates, blobs.pendingLikes, blobs.matches, blobs.blacklist,
    ).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

    row := r.db.QueryRowxContext(ctx, query, id)
    u, err := scanUser(row)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    return u, err
}

// Save overwrites the whole record. There is no transaction boundary
// beyond the single UPDATE; see the single-writer contract in models.go.
func (r *postgresRepository) Save(ctx context.Context, u *User) error {
    blobs, err := marshalUserBlobs(u)
    if err != nil {
        return err
    }

    query := `
        UPDATE users
        SET name = $2,
            current_lat = $3, current_lon = $4,
            predominant_lat = $5, predominant_lon = $6,
            tastes = $7, candidates = $8, pending_likes = $9,
            matches = $10, match_blacklist = $11,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
        RETURNING updated_at
    `

    err = r.db.QueryRowxContext(
        ctx, query,
        u.ID, u.Name,
        u.CurrentLocation.Lat, u.CurrentLocation.Lon,
        u.PredominantLocation.Lat, u.PredominantLocation.Lon,
        blobs.tastes, blobs.candidates, blobs.pendingLikes, blobs.matches, blobs.blacklist,
    ).Scan(&u.UpdatedAt)
    if err == sql.ErrNoRows {
        return ErrUserNotFound
    }
    return err
}

func (r *postgresRepository) ListInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*User, error) {
    query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE predominant_lat BETWEEN $1 AND $2
          AND predominant_lon BETWEEN $3 AND $4
    `

    rows, err := r.db.QueryxContext(ctx, query, minLat, maxLat, minLon, maxLon)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var users []*User
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    return users, rows.Err()
}

type userBlobs struct {
    tastes       []byte
    candidates   []byte
    pendingLikes []byte
    matches      []byte
    blacklist    []byte
}

func marshalUserBlobs(u *User) (*userBlobs, error) {
    var blobs userBlobs
    var err error

    if blobs.tastes, err = json.Marshal(u.Tastes); err != nil {
        return nil, fmt.Errorf("failed to marshal tastes for user %s: %w", u.ID, err)
    }
    if blobs.candidates, err = json.Marshal(u.Candidates); err != nil {
        return nil, fmt.Errorf("failed to marshal candidates for user %s: %w", u.ID, err)
    }
    if blobs.pendingLikes, err = json.Marshal(u.PendingLikes); err != nil {
        return nil, fmt.Errorf("failed to marshal pending likes for user %s: %w", u.ID, err)
    }
    if blobs.matches, err = json.Marshal(u.Matches); err != nil {
        return nil, fmt.Errorf("failed to marshal matches for user %s: %w", u.ID, err)
    }
    if blobs.blacklist, err = json.Marshal(u.MatchBlacklist); err != nil {
        return nil, fmt.Errorf("failed to marshal blacklist for user %s: %w", u.ID, err)
    }
    return &blobs, nil
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
    var u User
    var blobs userBlobs

    err := row.Scan(
        &u.ID, &u.Name,
        &u.CurrentLocation.Lat, &u.CurrentLocation.Lon,
        &u.PredominantLocation.Lat, &u.PredominantLocation.Lon,
        &blobs.tastes, &blobs.candidates, &blobs.pendingLikes,
        &blobs.matches, &blobs.blacklist,
        &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }

    if err := json.Unmarshal(blobs.tastes, &u.Tastes); err != nil {
        return nil, fmt.Errorf("failed to unmarshal tastes for user %s: %w", u.ID, err)
    }
    if err := json.Unmarshal(blobs.candidates, &u.Candidates); err != nil {
        return nil, fmt.Errorf("failed to unmarshal candidates for user %s: %w", u.ID, err)
    }
    if err := json.Unmarshal(blobs.pendingLikes, &u.PendingLikes); err != nil {
        return nil, fmt.Errorf("failed to unmarshal pending likes for user %s: %w", u.ID, err)
    }
    if err := json.Unmarshal(blobs.matches, &u.Matches); err != nil {
        return nil, fmt.Errorf("failed to unmarshal matches for user %s: %w", u.ID, err)
    }
    if err := json.Unmarshal(blobs.blacklist, &u.MatchBlacklist); err != nil {
        return nil, fmt.Errorf("failed to unmarshal blacklist for user %s: %w", u.ID, err)
    }

    return &u, nil
}
