// Package leaderboard builds the ranked comparison view of workout totals
// among a user and their direct friends.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/fitfriends/backend/internal/models"
)

// Source provides per-user summed workout totals for a user and their
// friends.
type Source interface {
	Totals(ctx context.Context, userID string) ([]models.LeaderboardEntry, error)
}

// Aggregator shapes leaderboard totals for presentation. Totals are summed
// across every workout a user has recorded; a user with no friends yields a
// single-entry mapping containing only that user.
type Aggregator struct {
	source Source
}

// NewAggregator constructs an aggregator over the provided source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate returns the user-id -> totals mapping for the user and their
// direct friends. Ordering is a presentation concern; see Rank.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) (map[string]models.LeaderboardEntry, error) {
	entries, err := a.source.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard totals: %w", err)
	}

	byUser := make(map[string]models.LeaderboardEntry, len(entries))
	for _, entry := range entries {
		byUser[entry.UserID] = entry
	}

	return byUser, nil
}

// Rank flattens a totals mapping into a slice ordered descending by the
// chosen metric ("distance", "steps", or the default "calories"), breaking
// ties by user id for a stable order.
func Rank(byUser map[string]models.LeaderboardEntry, metric string) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		entries = append(entries, entry)
	}

	value := func(e models.LeaderboardEntry) float64 {
		switch metric {
		case "distance":
			return e.Distance
		case "steps":
			return float64(e.Steps)
		default:
			return e.CaloriesBurned
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if value(entries[i]) != value(entries[j]) {
			return value(entries[i]) > value(entries[j])
		}
		return entries[i].UserID < entries[j].UserID
	})

	return entries
}
