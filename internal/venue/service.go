// internal/venue/service.go

package venue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "math"
    "sort"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
)

// DefaultQueryRadiusMeters guards against accidental full-table scans when
// a caller passes no radius.
const DefaultQueryRadiusMeters = 2000.0

const proximityCacheTTL = 5 * time.Minute

// Candidate is a venue paired with its distance from the query point.
type Candidate struct {
    DistanceMeters float64   `json:"distance_meters"`
    Datespot       *Datespot `json:"datespot"`
}

type Service interface {
    Ingest(ctx context.Context, datespots []*Datespot) (int, error)
    Create(ctx context.Context, name string, location geo.Point, cfg Config) (*Datespot, error)
    Get(ctx context.Context, id string) (*Datespot, error)
    QueryNear(ctx context.Context, center geo.Point, radiusMeters float64) ([]Candidate, error)
    Reference() *ReferenceData
    Scorer() *Scorer
}

type service struct {
    repo   Repository
    ref    *ReferenceData
    scorer *Scorer
    cache  *redis.Client // optional, nil disables caching
}

func NewService(repo Repository, ref *ReferenceData, cache *redis.Client) Service {
    return &service{
        repo:   repo,
        ref:    ref,
        scorer: NewScorer(ref),
        cache:  cache,
    }
}

func (s *service) Reference() *ReferenceData {
    return s.ref
}

func (s *service) Scorer() *Scorer {
    return s.scorer
}

// Create builds and persists a single datespot.
func (s *service) Create(ctx context.Context, name string, location geo.Point, cfg Config) (*Datespot, error) {
    d, err := NewDatespot(name, location, cfg, s.ref)
    if err != nil {
        return nil, err
    }
    if err := s.repo.Upsert(ctx, d); err != nil {
        return nil, fmt.Errorf("failed to save datespot %q: %w", name, err)
    }
    return d, nil
}

// Ingest upserts pre-normalized venues from an external data source.
// Identity is deterministic over name and rounded location, so the same
// venue arriving from two providers collapses onto one row. Returns the
// number of unique venues written.
func (s *service) Ingest(ctx context.Context, datespots []*Datespot) (int, error) {
    seen := make(map[string]bool, len(datespots))
    written := 0

    for _, d := range datespots {
        if d.ID == uuid.Nil {
            d.ID = DeriveID(d.Name, d.Location)
        }
        if seen[d.ID.String()] {
            continue
        }
        seen[d.ID.String()] = true

        if err := ValidateTraits(d.Traits); err != nil {
            return written, err
        }

        // Reference tables are applied on the way in so the stored
        // baseline never needs recomputation at scoring time.
        s.ref.ApplyBrandReputations(d)
        d.BaselineDateworthiness = s.ref.BaselineDateworthiness(d.Traits)

        if err := s.repo.Upsert(ctx, d); err != nil {
            return written, fmt.Errorf("failed to ingest datespot %q: %w", d.Name, err)
        }
        written++
    }

    return written, nil
}

func (s *service) Get(ctx context.Context, id string) (*Datespot, error) {
    parsed, err := parseID(id)
    if err != nil {
        return nil, err
    }
    return s.repo.Get(ctx, parsed)
}

// QueryNear returns venues strictly inside radiusMeters of center, nearest
// first. Passing radiusMeters <= 0 applies the default radius.
func (s *service) QueryNear(ctx context.Context, center geo.Point, radiusMeters float64) ([]Candidate, error) {
    if err := geo.Validate(center); err != nil {
        return nil, err
    }
    if radiusMeters <= 0 {
        radiusMeters = DefaultQueryRadiusMeters
    }

    if cached, ok := s.cachedQuery(ctx, center, radiusMeters); ok {
        return cached, nil
    }

    minLat, maxLat, minLon, maxLon := boundingBox(center, radiusMeters)
    inBox, err := s.repo.ListInBox(ctx, minLat, maxLat, minLon, maxLon)
    if err != nil {
        return nil, fmt.Errorf("failed to query datespots near (%v, %v): %w", center.Lat, center.Lon, err)
    }

    candidates := make([]Candidate, 0, len(inBox))
    for _, d := range inBox {
        distance := geo.Haversine(center, d.Location)
        if distance < radiusMeters {
            candidates = append(candidates, Candidate{DistanceMeters: distance, Datespot: d})
        }
    }

    sort.SliceStable(candidates, func(i, j int) bool {
        return candidates[i].DistanceMeters < candidates[j].DistanceMeters
    })

    s.storeQuery(ctx, center, radiusMeters, candidates)

    return candidates, nil
}

func (s *service) cachedQuery(ctx context.Context, center geo.Point, radius float64) ([]Candidate, bool) {
    if s.cache == nil {
        return nil, false
    }

    raw, err := s.cache.Get(ctx, proximityCacheKey(center, radius)).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            log.Printf("venue cache read failed: %v", err)
        }
        return nil, false
    }

    var candidates []Candidate
    if err := json.Unmarshal(raw, &candidates); err != nil {
        log.Printf("venue cache entry corrupt, ignoring: %v", err)
        return nil, false
    }
    return candidates, true
}

func (s *service) storeQuery(ctx context.Context, center geo.Point, radius float64, candidates []Candidate) {
    if s.cache == nil {
        return
    }

    raw, err := json.Marshal(candidates)
    if err != nil {
        return
    }
    if err := s.cache.Set(ctx, proximityCacheKey(center, radius), raw, proximityCacheTTL).Err(); err != nil {
        log.Printf("venue cache write failed: %v", err)
    }
}

func proximityCacheKey(center geo.Point, radius float64) string {
    // Rounded to ~11m of key granularity; close-enough queries share entries.
    return fmt.Sprintf("venues:near:%.4f:%.4f:%.0f", center.Lat, center.Lon, radius)
}

func cosDegrees(deg float64) float64 {
    return math.Abs(math.Cos(deg * math.Pi / 180))
}

func parseID(id string) (uuid.UUID, error) {
    parsed, err := uuid.Parse(id)
    if err != nil {
        return uuid.Nil, fmt.Errorf("invalid datespot id %q: %w", id, err)
    }
    return parsed, nil
}
