package match

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    matchesTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "match_matches_total",
            Help: "Total number of matches created",
        },
    )

    suggestionRefreshesTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "match_suggestion_refreshes_total",
            Help: "Total number of suggestion queue refreshes",
        },
    )

    suggestionsServedTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "match_suggestions_served_total",
            Help: "Total number of suggestions popped from queues",
        },
    )

    jointScores = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "match_joint_scores",
            Help:    "Distribution of joint venue scores",
            Buckets: prometheus.LinearBuckets(-1, 0.2, 11),
        },
    )
)

func RecordMatch() {
    matchesTotal.Inc()
}

func RecordSuggestionRefresh() {
    suggestionRefreshesTotal.Inc()
}

func RecordSuggestionServed() {
    suggestionsServedTotal.Inc()
}

func ObserveJointScore(score float64) {
    jointScores.Observe(score)
}
