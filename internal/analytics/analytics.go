package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"trove-assistant/internal/storage"
)

// DailyStats aggregates one day of widget traffic.
type DailyStats struct {
	Date           string         `json:"date"`
	TotalTurns     int            `json:"total_turns"`
	UniqueSessions int            `json:"unique_sessions"`
	Navigations    int            `json:"navigations"`
	Fallbacks      int            `json:"fallbacks"`
	ByIntent       map[string]int `json:"by_intent"`
	ByChannel      map[string]int `json:"by_channel"`
}

// AnalyzeDailyLogs computes stats for the day containing targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:      startOfDay.Format("2006-01-02"),
		ByIntent:  make(map[string]int),
		ByChannel: make(map[string]int),
	}

	uniqueSessions := make(map[string]bool)

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.Message == "" {
			continue
		}

		stats.TotalTurns++
		uniqueSessions[event.Session] = true
		stats.ByIntent[event.Intent]++
		stats.ByChannel[event.Channel]++
		if event.NavigateTo != "" {
			stats.Navigations++
		}
		if event.Fallback {
			stats.Fallbacks++
		}
	}

	stats.UniqueSessions = len(uniqueSessions)
	return stats
}

// Summary renders the stats as a short plain-text report for the daily log.
func (ds *DailyStats) Summary() string {
	out := fmt.Sprintf("Assistant traffic for %s: %d turns, %d sessions, %d navigations, %d fallbacks\n",
		ds.Date, ds.TotalTurns, ds.UniqueSessions, ds.Navigations, ds.Fallbacks)

	intents := make([]string, 0, len(ds.ByIntent))
	for in := range ds.ByIntent {
		intents = append(intents, in)
	}
	sort.Strings(intents)
	for _, in := range intents {
		out += fmt.Sprintf("- intent %s: %d\n", in, ds.ByIntent[in])
	}
	return out
}

// ToJSON serializes the stats for detailed analysis.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
