package venue

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "math"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
)

type Repository interface {
    Upsert(ctx context.Context, d *Datespot) error
    Get(ctx context.Context, id uuid.UUID) (*Datespot, error)
    ListInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*Datespot, error)
    All(ctx context.Context) ([]*Datespot, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, d *Datespot) error {
    traitsJSON, err := json.Marshal(d.Traits)
    if err != nil {
        return fmt.Errorf("failed to marshal traits for datespot %s: %w", d.ID, err)
    }

    query := `
        INSERT INTO datespots (
            id, name, lat, lon, traits, price_range, baseline_dateworthiness
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id)
        DO UPDATE SET
            traits = $5,
            price_range = $6,
            baseline_dateworthiness = $7,
            updated_at = CURRENT_TIMESTAMP
        RETURNING created_at, updated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        d.ID, d.Name, d.Location.Lat, d.Location.Lon,
        traitsJSON, d.PriceRange, d.BaselineDateworthiness,
    ).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*Datespot, error) {
    query := `
        SELECT id, name, lat, lon, traits, price_range, baseline_dateworthiness,
               created_at, updated_at
        FROM datespots
        WHERE id = $1
    `

    row := r.db.QueryRowxContext(ctx, query, id)
    d, err := scanDatespot(row)
    if err == sql.ErrNoRows {
        return nil, ErrDatespotNotFound
    }
    return d, err
}

func (r *postgresRepository) ListInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*Datespot, error) {
    query := `
        SELECT id, name, lat, lon, traits, price_range, baseline_dateworthiness,
               created_at, updated_at
        FROM datespots
        WHERE lat BETWEEN $1 AND $2
          AND lon BETWEEN $3 AND $4
    `

    rows, err := r.db.QueryxContext(ctx, query, minLat, maxLat, minLon, maxLon)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    return scanDatespots(rows)
}

func (r *postgresRepository) All(ctx context.Context) ([]*Datespot, error) {
    query := `
        SELECT id, name, lat, lon, traits, price_range, baseline_dateworthiness,
               created_at, updated_at
        FROM datespots
    `

    rows, err := r.db.QueryxContext(ctx, query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    return scanDatespots(rows)
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanDatespot(row rowScanner) (*Datespot, error) {
    var d Datespot
    var traitsJSON []byte

    err := row.Scan(
        &d.ID, &d.Name, &d.Location.Lat, &d.Location.Lon,
        &traitsJSON, &d.PriceRange, &d.BaselineDateworthiness,
        &d.CreatedAt, &d.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }

    d.Traits = make(map[string]Trait)
    if len(traitsJSON) > 0 {
        if err := json.Unmarshal(traitsJSON, &d.Traits); err != nil {
            return nil, fmt.Errorf("failed to unmarshal traits for datespot %s: %w", d.ID, err)
        }
    }
    if err := ValidateTraits(d.Traits); err != nil {
        return nil, err
    }

    return &d, nil
}

func scanDatespots(rows *sqlx.Rows) ([]*Datespot, error) {
    var datespots []*Datespot
    for rows.Next() {
        d, err := scanDatespot(rows)
        if err != nil {
            return nil, err
        }
        datespots = append(datespots, d)
    }
    return datespots, rows.Err()
}

// boundingBox converts a radius around a point into a lat/lon window for
// the SQL prefilter. The window is deliberately padded: rows it admits
// still face the exact haversine cut in the service, but a row it drops is
// gone for good.
func boundingBox(center geo.Point, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
    metersPerDegree := geo.EarthRadiusMeters * math.Pi / 180
    padded := radiusMeters * 1.01

    dLat := padded / metersPerDegree
    minLat, maxLat = center.Lat-dLat, center.Lat+dLat

    // Longitude degrees shrink with latitude; widen near the poles.
    cos := cosDegrees(center.Lat)
    if cos < 0.01 {
        cos = 0.01
    }
    dLon := padded / (metersPerDegree * cos)
    minLon, maxLon = center.Lon-dLon, center.Lon+dLon
    return
}
