package match

import (
    "context"
    "log"
    "time"
)

// DefaultRefillInterval is how often the scheduler sweeps for matches
// whose suggestion queues have run dry.
const DefaultRefillInterval = 15 * time.Minute

// Scheduler periodically refills empty suggestion queues so that a
// couple who exhausted their list gets fresh picks without waiting for
// the next explicit refresh.
type Scheduler struct {
    service  Service
    repo     Repository
    interval time.Duration
}

func NewScheduler(service Service, repo Repository, interval time.Duration) *Scheduler {
    if interval <= 0 {
        interval = DefaultRefillInterval
    }
    return &Scheduler{service: service, repo: repo, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) {
    go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ticker.C:
            if err := s.refillEmptyQueues(ctx); err != nil {
                log.Printf("Suggestion refill sweep failed: %v", err)
            }
        case <-ctx.Done():
            return
        }
    }
}

func (s *Scheduler) refillEmptyQueues(ctx context.Context) error {
    ids, err := s.repo.ListWithEmptyQueues(ctx)
    if err != nil {
        return err
    }

    for _, id := range ids {
        if _, err := s.service.RefreshSuggestions(ctx, id); err != nil {
            log.Printf("Failed to refill suggestions for match %s: %v", id, err)
        }
    }
    return nil
}
