// internal/user/service.go

package user

import (
    "context"
    "errors"
    "fmt"
    "math"
    "sort"
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
)

var (
    ErrUserNotFound   = errors.New("user not found")
    ErrSelfSwipe      = errors.New("cannot swipe on yourself")
    ErrBlacklisted    = errors.New("candidate is blacklisted")
    ErrNoCandidates   = errors.New("candidate queue is empty")
    ErrNoMatchCreator = errors.New("match creator not configured")
)

// DefaultCandidateRadiusMeters bounds the nearby-user query used to refill
// an empty candidate queue.
const DefaultCandidateRadiusMeters = 50000.0

// MatchCreator is the match module's entry point, injected after
// construction to break the user ↔ match dependency cycle.
type MatchCreator interface {
    CreateMatch(ctx context.Context, user1ID, user2ID uuid.UUID) (uuid.UUID, error)
}

// SwipeResult reports the outcome of an accept swipe.
type SwipeResult struct {
    Matched bool      `json:"matched"`
    MatchID uuid.UUID `json:"match_id,omitempty"`
}

type Service interface {
    Register(ctx context.Context, name string, location geo.Point) (*User, error)
    Get(ctx context.Context, id uuid.UUID) (*User, error)
    UpdateLocation(ctx context.Context, id uuid.UUID, location geo.Point) error
    UpdateTaste(ctx context.Context, id uuid.UUID, trait string, strength float64) error

    // Swipe lifecycle
    Accept(ctx context.Context, userID, candidateID uuid.UUID) (*SwipeResult, error)
    Reject(ctx context.Context, userID, candidateID uuid.UUID) error
    Defer(ctx context.Context, userID, candidateID uuid.UUID) error
    Candidates(ctx context.Context, userID uuid.UUID) ([]CandidateView, error)
    NextCandidate(ctx context.Context, userID uuid.UUID) (*CandidateView, error)
    RefillCandidates(ctx context.Context, userID uuid.UUID) (int, error)

    // Collaborator surface for the match engine
    CurrentLocation(ctx context.Context, userID uuid.UUID) (geo.Point, error)
    TasteProfile(ctx context.Context, userID uuid.UUID) (*taste.Profile, error)
    AttachMatch(ctx context.Context, userID, matchID, partnerID uuid.UUID, ts time.Time) error
    DetachMatch(ctx context.Context, userID, matchID uuid.UUID) error

    SetMatchCreator(mc MatchCreator)
}

type service struct {
    repo         Repository
    matchCreator MatchCreator
}

func NewService(repo Repository) Service {
    return &service{repo: repo}
}

// SetMatchCreator wires the match module in after both services exist.
func (s *service) SetMatchCreator(mc MatchCreator) {
    s.matchCreator = mc
}

func (s *service) Register(ctx context.Context, name string, location geo.Point) (*User, error) {
    if name == "" {
        return nil, errors.New("user name is empty")
    }
    if err := geo.Validate(location); err != nil {
        return nil, err
    }

    now := time.Now()
    u := &User{
        ID:                  uuid.New(),
        Name:                name,
        CurrentLocation:     location,
        PredominantLocation: location,
        Tastes:              taste.NewProfile(),
        Candidates:          []uuid.UUID{},
        PendingLikes:        make(map[uuid.UUID]time.Time),
        Matches:             []MatchRef{},
        MatchBlacklist:      make(map[uuid.UUID]time.Time),
    }
    // A user can never match themself.
    u.MatchBlacklist[u.ID] = now

    if err := s.repo.Create(ctx, u); err != nil {
        return nil, fmt.Errorf("failed to register user %q: %w", name, err)
    }
    return u, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
    return s.repo.Get(ctx, id)
}

func (s *service) UpdateLocation(ctx context.Context, id uuid.UUID, location geo.Point) error {
    if err := geo.Validate(location); err != nil {
        return err
    }

    u, err := s.repo.Get(ctx, id)
    if err != nil {
        return err
    }

    u.CurrentLocation = location
    return s.repo.Save(ctx, u)
}

func (s *service) UpdateTaste(ctx context.Context, id uuid.UUID, trait string, strength float64) error {
    u, err := s.repo.Get(ctx, id)
    if err != nil {
        return err
    }
    if u.Tastes == nil {
        u.Tastes = taste.NewProfile()
    }
    if err := u.Tastes.Update(trait, strength); err != nil {
        return err
    }
    return s.repo.Save(ctx, u)
}

// Accept processes a "yes" swipe. If the candidate already liked this user
// the pair transitions to matched and the match module is invoked;
// otherwise the like is parked in pending_likes awaiting reciprocation.
func (s *service) Accept(ctx context.Context, userID, candidateID uuid.UUID) (*SwipeResult, error) {
    if userID == candidateID {
        return nil, ErrSelfSwipe
    }

    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return nil, err
    }
    if u.Blacklisted(candidateID) {
        return nil, ErrBlacklisted
    }

    candidate, err := s.repo.Get(ctx, candidateID)
    if err != nil {
        return nil, err
    }

    if _, liked := candidate.PendingLikes[userID]; liked {
        if s.matchCreator == nil {
            return nil, ErrNoMatchCreator
        }

        matchID, err := s.matchCreator.CreateMatch(ctx, userID, candidateID)
        if err != nil {
            return nil, fmt.Errorf("failed to create match for %s and %s: %w", userID, candidateID, err)
        }

        // Match creation rewrote both user records to attach the match;
        // the snapshots loaded above are stale. Re-load before mutating
        // or the saves below would erase the attached match refs.
        u, err = s.repo.Get(ctx, userID)
        if err != nil {
            return nil, err
        }
        candidate, err = s.repo.Get(ctx, candidateID)
        if err != nil {
            return nil, err
        }

        u.removeCandidate(candidateID)

        // The reciprocated like is consumed by the match.
        delete(candidate.PendingLikes, userID)
        if err := s.repo.Save(ctx, candidate); err != nil {
            return nil, err
        }
        if err := s.repo.Save(ctx, u); err != nil {
            return nil, err
        }
        return &SwipeResult{Matched: true, MatchID: matchID}, nil
    }

    u.removeCandidate(candidateID)
    u.PendingLikes[candidateID] = time.Now()
    if err := s.repo.Save(ctx, u); err != nil {
        return nil, err
    }
    return &SwipeResult{Matched: false}, nil
}

// Reject removes the candidate and blacklists them. The candidate's own
// queue is untouched.
func (s *service) Reject(ctx context.Context, userID, candidateID uuid.UUID) error {
    if userID == candidateID {
        return ErrSelfSwipe
    }

    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return err
    }

    u.removeCandidate(candidateID)
    u.MatchBlacklist[candidateID] = time.Now()
    return s.repo.Save(ctx, u)
}

// Defer removes the candidate from the queue without blacklisting; they
// stay eligible for a future refill.
func (s *service) Defer(ctx context.Context, userID, candidateID uuid.UUID) error {
    if userID == candidateID {
        return ErrSelfSwipe
    }

    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return err
    }

    u.removeCandidate(candidateID)
    return s.repo.Save(ctx, u)
}

func (s *service) Candidates(ctx context.Context, userID uuid.UUID) ([]CandidateView, error) {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return nil, err
    }

    views := make([]CandidateView, 0, len(u.Candidates))
    for _, id := range u.Candidates {
        candidate, err := s.repo.Get(ctx, id)
        if err != nil {
            if errors.Is(err, ErrUserNotFound) {
                continue
            }
            return nil, err
        }
        views = append(views, CandidateView{
            ID:             candidate.ID,
            Name:           candidate.Name,
            DistanceMeters: geo.Haversine(u.PredominantLocation, candidate.PredominantLocation),
        })
    }
    return views, nil
}

// NextCandidate pops the nearest queued candidate, refilling the queue
// first when it has run dry.
func (s *service) NextCandidate(ctx context.Context, userID uuid.UUID) (*CandidateView, error) {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return nil, err
    }

    if len(u.Candidates) == 0 {
        if _, err := s.RefillCandidates(ctx, userID); err != nil {
            return nil, err
        }
        u, err = s.repo.Get(ctx, userID)
        if err != nil {
            return nil, err
        }
        if len(u.Candidates) == 0 {
            return nil, ErrNoCandidates
        }
    }

    // Nearest sits at the tail.
    id := u.Candidates[len(u.Candidates)-1]
    candidate, err := s.repo.Get(ctx, id)
    if err != nil {
        return nil, err
    }

    return &CandidateView{
        ID:             candidate.ID,
        Name:           candidate.Name,
        DistanceMeters: geo.Haversine(u.PredominantLocation, candidate.PredominantLocation),
    }, nil
}

// RefillCandidates re-queries nearby users around the predominant location,
// excluding self and blacklisted ids. The queue is stored farthest-first so
// the nearest candidate pops from the tail in O(1).
func (s *service) RefillCandidates(ctx context.Context, userID uuid.UUID) (int, error) {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return 0, err
    }

    minLat, maxLat, minLon, maxLon := candidateBox(u.PredominantLocation, DefaultCandidateRadiusMeters)
    nearby, err := s.repo.ListInBox(ctx, minLat, maxLat, minLon, maxLon)
    if err != nil {
        return 0, fmt.Errorf("failed to query users near %s: %w", userID, err)
    }

    type scored struct {
        id       uuid.UUID
        distance float64
    }
    eligible := make([]scored, 0, len(nearby))
    for _, other := range nearby {
        if other.ID == userID || u.Blacklisted(other.ID) {
            continue
        }
        distance := geo.Haversine(u.PredominantLocation, other.PredominantLocation)
        if distance < DefaultCandidateRadiusMeters {
            eligible = append(eligible, scored{id: other.ID, distance: distance})
        }
    }

    sort.SliceStable(eligible, func(i, j int) bool {
        return eligible[i].distance > eligible[j].distance
    })

    u.Candidates = make([]uuid.UUID, len(eligible))
    for i, entry := range eligible {
        u.Candidates[i] = entry.id
    }

    if err := s.repo.Save(ctx, u); err != nil {
        return 0, err
    }
    return len(u.Candidates), nil
}

func (s *service) CurrentLocation(ctx context.Context, userID uuid.UUID) (geo.Point, error) {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return geo.Point{}, err
    }
    return u.CurrentLocation, nil
}

func (s *service) TasteProfile(ctx context.Context, userID uuid.UUID) (*taste.Profile, error) {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return nil, err
    }
    if u.Tastes == nil {
        u.Tastes = taste.NewProfile()
    }
    return u.Tastes, nil
}

func (s *service) AttachMatch(ctx context.Context, userID, matchID, partnerID uuid.UUID, ts time.Time) error {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return err
    }
    u.attachMatch(MatchRef{MatchID: matchID, PartnerID: partnerID, Timestamp: ts})
    return s.repo.Save(ctx, u)
}

func (s *service) DetachMatch(ctx context.Context, userID, matchID uuid.UUID) error {
    u, err := s.repo.Get(ctx, userID)
    if err != nil {
        return err
    }
    if !u.detachMatch(matchID) {
        return nil
    }
    return s.repo.Save(ctx, u)
}

func candidateBox(center geo.Point, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
    metersPerDegree := geo.EarthRadiusMeters * math.Pi / 180
    padded := radiusMeters * 1.01

    dLat := padded / metersPerDegree

    // Longitude degrees shrink with latitude; widen near the poles.
    // The haversine cut above is exact, so overshoot is harmless.
    cos := math.Abs(math.Cos(center.Lat * math.Pi / 180))
    if cos < 0.01 {
        cos = 0.01
    }
    dLon := padded / (metersPerDegree * cos)
    return center.Lat - dLat, center.Lat + dLat, center.Lon - dLon, center.Lon + dLon
}
