// Package views contains the pure derivations rendered by the UI: search
// and category filtering, active/archived partitioning, grouping and the
// timeline index. Nothing here mutates its input.
package views

import (
	"sort"
	"strings"
	"time"

	"market-weekly/models"
)

// Sort modes for the active insight board.
const (
	SortByCategory = "category"
	SortByTimeline = "timeline"
)

// PeriodLabel formats a millisecond timestamp as its year-month label,
// e.g. "2026-08". Labels sort lexically in chronological order.
func PeriodLabel(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01")
}

// DayLabel formats a millisecond timestamp as a calendar-day heading.
func DayLabel(ms int64) string {
	return time.UnixMilli(ms).Format("January 2, 2006")
}

// FilterInsights applies the search query, category filter and year-month
// period filter in sequence. An empty or whitespace-only query means no
// text filtering; CategoryAll and an empty period bypass their filters.
func FilterInsights(items []models.MarketInsight, query string, category models.Category, period string) []models.MarketInsight {
	result := items

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		var matched []models.MarketInsight
		for _, in := range result {
			if strings.Contains(strings.ToLower(in.Symbol), q) ||
				strings.Contains(strings.ToLower(in.FocusPoints), q) {
				matched = append(matched, in)
			}
		}
		result = matched
	}

	if category != "" && category != models.CategoryAll {
		var matched []models.MarketInsight
		for _, in := range result {
			if in.Category == category {
				matched = append(matched, in)
			}
		}
		result = matched
	}

	if period != "" {
		var matched []models.MarketInsight
		for _, in := range result {
			if PeriodLabel(in.UpdatedAt) == period {
				matched = append(matched, in)
			}
		}
		result = matched
	}

	return result
}

// FilterJournals applies the search query against title, content and type.
func FilterJournals(entries []models.JournalEntry, query string) []models.JournalEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	var matched []models.JournalEntry
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Title), q) ||
			strings.Contains(strings.ToLower(entry.Content), q) ||
			strings.Contains(strings.ToLower(string(entry.Type)), q) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Partition splits insights into active calls and everything else.
// Archived insights are listed flat, never grouped.
func Partition(items []models.MarketInsight) (active, archived []models.MarketInsight) {
	for _, in := range items {
		if in.CompletionStatus == models.CompletionActive {
			active = append(active, in)
		} else {
			archived = append(archived, in)
		}
	}
	return active, archived
}

// Group is a labeled run of insights on the board.
type Group struct {
	Label string                 `json:"label"`
	Items []models.MarketInsight `json:"items"`
}

// GroupActive groups active insights by category (fixed enumeration order)
// or by calendar day (most recent first). Input order is preserved within
// each group.
func GroupActive(active []models.MarketInsight, sortMode string) []Group {
	byLabel := make(map[string][]models.MarketInsight)
	var order []string
	for _, in := range active {
		label := string(in.Category)
		if sortMode == SortByTimeline {
			label = DayLabel(in.UpdatedAt)
		}
		if _, seen := byLabel[label]; !seen {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], in)
	}

	groups := make([]Group, 0, len(order))
	for _, label := range order {
		groups = append(groups, Group{Label: label, Items: byLabel[label]})
	}

	if sortMode == SortByTimeline {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Items[0].UpdatedAt > groups[j].Items[0].UpdatedAt
		})
	} else {
		sort.SliceStable(groups, func(i, j int) bool {
			return models.CategoryRank(models.Category(groups[i].Label)) <
				models.CategoryRank(models.Category(groups[j].Label))
		})
	}
	return groups
}

// TimelinePeriod is one year-month bucket of the navigation index.
type TimelinePeriod struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimelineIndex counts insights per year-month label, most recent first.
func TimelineIndex(items []models.MarketInsight) []TimelinePeriod {
	counts := make(map[string]int)
	for _, in := range items {
		counts[PeriodLabel(in.UpdatedAt)]++
	}

	periods := make([]TimelinePeriod, 0, len(counts))
	for label, count := range counts {
		periods = append(periods, TimelinePeriod{Label: label, Count: count})
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Label > periods[j].Label
	})
	return periods
}
