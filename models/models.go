// Package models defines the domain types shared by the market-weekly
// service: market insights, journal entries and in-app notifications,
// plus the fixed enumerations that classify them.
package models

// AssetStatus is the directional call on a symbol.
type AssetStatus string

const (
	StatusBullish     AssetStatus = "bullish"
	StatusBearish     AssetStatus = "bearish"
	StatusOscillating AssetStatus = "oscillating"
)

// CompletionStatus is the lifecycle stage of an insight, independent of
// its directional status.
type CompletionStatus string

const (
	CompletionActive      CompletionStatus = "active"
	CompletionCompleted   CompletionStatus = "completed"
	CompletionInvalidated CompletionStatus = "invalidated"
)

// Next returns the following lifecycle stage. The cycle wraps:
// active -> completed -> invalidated -> active.
func (c CompletionStatus) Next() CompletionStatus {
	switch c {
	case CompletionActive:
		return CompletionCompleted
	case CompletionCompleted:
		return CompletionInvalidated
	default:
		return CompletionActive
	}
}

// MarketMood is a decorative sentiment tag on journal entries.
type MarketMood string

const (
	MoodGreed MarketMood = "greed"
	MoodFear  MarketMood = "fear"
	MoodCalm  MarketMood = "calm"
	MoodAlert MarketMood = "alert"
)

// EntryType classifies a journal entry.
type EntryType string

const (
	EntryNote  EntryType = "note"
	EntryNews  EntryType = "news"
	EntryLogic EntryType = "logic"
)

// NotificationType tags a notification with the event that produced it.
// Journal-derived notifications carry the entry's type; status changes use
// "market" and lifecycle changes use "system".
type NotificationType string

const (
	NotificationMarket NotificationType = "market"
	NotificationSystem NotificationType = "system"
	NotificationNote   NotificationType = NotificationType(EntryNote)
	NotificationNews   NotificationType = NotificationType(EntryNews)
	NotificationLogic  NotificationType = NotificationType(EntryLogic)
)

// Category is an asset class bucket for insights.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryIndex   Category = "index"
	CategoryCrypto  Category = "crypto"
	CategoryUSStock Category = "us-stock"
	CategoryCNStock Category = "cn-stock"
	CategoryForex   Category = "forex"
)

// Categories is the fixed enumeration order used for grouping and the
// category filter bar.
var Categories = []Category{
	CategoryAll,
	CategoryIndex,
	CategoryCrypto,
	CategoryUSStock,
	CategoryCNStock,
	CategoryForex,
}

// CategoryRank returns the position of cat in the fixed enumeration, or
// len(Categories) for unknown values so they sort last.
func CategoryRank(cat Category) int {
	for i, c := range Categories {
		if c == cat {
			return i
		}
	}
	return len(Categories)
}

// MarketInsight is a single directional market call on an asset.
type MarketInsight struct {
	ID               string           `json:"id"`
	Symbol           string           `json:"symbol"`
	Category         Category         `json:"category"`
	Status           AssetStatus      `json:"status"`
	FocusPoints      string           `json:"focusPoints"`
	Strategy         string           `json:"strategy"`
	EntryLevel       string           `json:"entryLevel,omitempty"`
	UpdatedAt        int64            `json:"updatedAt"` // milliseconds since epoch
	CompletionStatus CompletionStatus `json:"completionStatus"`
}

// JournalEntry is a free-text feed item, newest first.
type JournalEntry struct {
	ID      string     `json:"id"`
	Title   string     `json:"title,omitempty"`
	Content string     `json:"content"`
	Mood    MarketMood `json:"mood"`
	Type    EntryType  `json:"type"`
	Source  string     `json:"source,omitempty"`
	Date    int64      `json:"date"` // milliseconds since epoch
}

// AppNotification is a derived inbox event. It is only ever created as a
// side effect of insight or journal mutations.
type AppNotification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp int64            `json:"timestamp"` // milliseconds since epoch
	IsRead    bool             `json:"isRead"`
	Type      NotificationType `json:"type"`
}
