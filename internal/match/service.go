// internal/match/service.go

package match

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
    "github.com/B-T-D/datespot-suggester-sub000/internal/taste"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

// Users is the surface the match module needs from the user module. It is
// satisfied by user.Service.
type Users interface {
    CurrentLocation(ctx context.Context, userID uuid.UUID) (geo.Point, error)
    TasteProfile(ctx context.Context, userID uuid.UUID) (*taste.Profile, error)
    AttachMatch(ctx context.Context, userID, matchID, partnerID uuid.UUID, ts time.Time) error
    DetachMatch(ctx context.Context, userID, matchID uuid.UUID) error
}

// Venues is the slice of venue.Service the suggestion pipeline consumes.
type Venues interface {
    QueryNear(ctx context.Context, center geo.Point, radiusMeters float64) ([]venue.Candidate, error)
}

type Service interface {
    Create(ctx context.Context, user1ID, user2ID uuid.UUID) (*Match, error)
    Get(ctx context.Context, id uuid.UUID) (*Match, error)
    RefreshSuggestions(ctx context.Context, matchID uuid.UUID) (int, error)
    NextSuggestion(ctx context.Context, matchID uuid.UUID) (*venue.Datespot, error)

    // CreateMatch satisfies user.MatchCreator.
    CreateMatch(ctx context.Context, user1ID, user2ID uuid.UUID) (uuid.UUID, error)
}

type service struct {
    repo   Repository
    users  Users
    venues Venues
    engine *Engine
}

func NewService(repo Repository, users Users, venues Venues, engine *Engine) Service {
    return &service{
        repo:   repo,
        users:  users,
        venues: venues,
        engine: engine,
    }
}

// Create records a match between two users and attaches it to both user
// records. The match id is deterministic over the unordered pair, so a
// repeat create surfaces ErrAlreadyMatched instead of a duplicate row.
// The midpoint and distance are fixed from the users' locations at this
// moment and never recomputed.
func (s *service) Create(ctx context.Context, user1ID, user2ID uuid.UUID) (*Match, error) {
    if user1ID == user2ID {
        return nil, ErrSelfMatch
    }

    first, second := CanonicalPair(user1ID, user2ID)
    id := DeriveID(first, second)

    if _, err := s.repo.Get(ctx, id); err == nil {
        return nil, fmt.Errorf("%w: %s and %s", ErrAlreadyMatched, first, second)
    } else if err != ErrMatchNotFound {
        return nil, err
    }

    loc1, err := s.users.CurrentLocation(ctx, first)
    if err != nil {
        return nil, fmt.Errorf("failed to locate user %s: %w", first, err)
    }
    loc2, err := s.users.CurrentLocation(ctx, second)
    if err != nil {
        return nil, fmt.Errorf("failed to locate user %s: %w", second, err)
    }

    m := &Match{
        ID:             id,
        User1ID:        first,
        User2ID:        second,
        Timestamp:      time.Now().UTC(),
        Midpoint:       geo.Midpoint(loc1, loc2),
        DistanceMeters: geo.Haversine(loc1, loc2),
        Suggestions:    []Suggestion{},
    }

    if err := s.repo.Create(ctx, m); err != nil {
        return nil, fmt.Errorf("failed to persist match %s: %w", id, err)
    }

    if err := s.users.AttachMatch(ctx, first, id, second, m.Timestamp); err != nil {
        if delErr := s.repo.Delete(ctx, id); delErr != nil {
            return nil, &ConsistencyError{Op: "create match", MatchID: id, UserID: first, Err: delErr}
        }
        return nil, fmt.Errorf("failed to attach match %s to user %s: %w", id, first, err)
    }

    if err := s.users.AttachMatch(ctx, second, id, first, m.Timestamp); err != nil {
        // Roll the first side back. If that also fails the two user
        // records disagree and the caller must know.
        if detErr := s.users.DetachMatch(ctx, first, id); detErr != nil {
            return nil, &ConsistencyError{Op: "create match", MatchID: id, UserID: first, Err: detErr}
        }
        if delErr := s.repo.Delete(ctx, id); delErr != nil {
            return nil, &ConsistencyError{Op: "create match", MatchID: id, UserID: second, Err: delErr}
        }
        return nil, fmt.Errorf("failed to attach match %s to user %s: %w", id, second, err)
    }

    RecordMatch()

    // Best effort: fill the queue now so the first suggestion request
    // doesn't pay the scoring cost. Failure is the scheduler's problem.
    if _, err := s.RefreshSuggestions(ctx, id); err != nil {
        log.Printf("match %s created but initial suggestion refresh failed: %v", id, err)
    }

    return s.repo.Get(ctx, id)
}

// CreateMatch is the narrow entry point handed to the user module for
// mutual-acceptance swipes.
func (s *service) CreateMatch(ctx context.Context, user1ID, user2ID uuid.UUID) (uuid.UUID, error) {
    m, err := s.Create(ctx, user1ID, user2ID)
    if err != nil {
        return uuid.Nil, err
    }
    return m.ID, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Match, error) {
    return s.repo.Get(ctx, id)
}

// RefreshSuggestions rebuilds the match's suggestion queue: venues near
// the midpoint, scored jointly for both users, best first. The query
// radius is half the users' separation; for co-located users the venue
// layer's default radius applies. Returns the new queue length.
func (s *service) RefreshSuggestions(ctx context.Context, matchID uuid.UUID) (int, error) {
    m, err := s.repo.Get(ctx, matchID)
    if err != nil {
        return 0, err
    }

    candidates, err := s.venues.QueryNear(ctx, m.Midpoint, m.QueryRadiusMeters())
    if err != nil {
        return 0, fmt.Errorf("failed to query venues for match %s: %w", matchID, err)
    }

    tastes1, err := s.users.TasteProfile(ctx, m.User1ID)
    if err != nil {
        return 0, err
    }
    tastes2, err := s.users.TasteProfile(ctx, m.User2ID)
    if err != nil {
        return 0, err
    }

    if err := s.engine.RefreshSuggestions(m, candidates, tastes1, tastes2); err != nil {
        return 0, err
    }

    if err := s.repo.Save(ctx, m); err != nil {
        return 0, fmt.Errorf("failed to persist suggestions for match %s: %w", matchID, err)
    }

    RecordSuggestionRefresh()
    return len(m.Suggestions), nil
}

// NextSuggestion pops the best remaining venue for the match. An empty
// queue triggers one refresh before giving up with ErrEmptyQueue.
func (s *service) NextSuggestion(ctx context.Context, matchID uuid.UUID) (*venue.Datespot, error) {
    m, err := s.repo.Get(ctx, matchID)
    if err != nil {
        return nil, err
    }

    if !m.HasSuggestions() {
        if _, err := s.RefreshSuggestions(ctx, matchID); err != nil {
            return nil, err
        }
        if m, err = s.repo.Get(ctx, matchID); err != nil {
            return nil, err
        }
    }

    d, err := s.engine.PopSuggestion(m)
    if err != nil {
        return nil, err
    }

    if err := s.repo.Save(ctx, m); err != nil {
        return nil, fmt.Errorf("failed to persist suggestion pop for match %s: %w", matchID, err)
    }

    RecordSuggestionServed()
    return d, nil
}
