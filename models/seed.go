package models

import "time"

// SeedInsights returns the built-in sample board used when no remote store
// is configured and the local mirror is empty. Timestamps are relative so a
// fresh install still looks recent.
func SeedInsights() []MarketInsight {
	now := time.Now().UnixMilli()
	const day = int64(24 * time.Hour / time.Millisecond)

	return []MarketInsight{
		{
			ID:               "seed-1",
			Symbol:           "BTC",
			Category:         CategoryCrypto,
			Status:           StatusOscillating,
			FocusPoints:      "Bellwether for risk appetite; watch liquidity shifts. Ranging near the highs while the market picks a direction.",
			Strategy:         "Hold above the 92,000 support; reduce exposure on a clean break below.",
			EntryLevel:       "92,000 - 95,000",
			UpdatedAt:        now - day,
			CompletionStatus: CompletionActive,
		},
		{
			ID:               "seed-2",
			Symbol:           "NVDA",
			Category:         CategoryUSStock,
			Status:           StatusBullish,
			FocusPoints:      "AI demand remains firm, guidance beat expectations, price holding above the trendline.",
			Strategy:         "Scale in on pullbacks to the 20-day moving average.",
			EntryLevel:       "138.50",
			UpdatedAt:        now - 5*day,
			CompletionStatus: CompletionCompleted,
		},
		{
			ID:               "seed-3",
			Symbol:           "TSLA",
			Category:         CategoryUSStock,
			Status:           StatusBearish,
			FocusPoints:      "Overextended short term and facing pullback pressure; support sits near 300.",
			Strategy:         "Take profit into strength and wait for the base to form.",
			EntryLevel:       "take profit near 320.00",
			UpdatedAt:        now,
			CompletionStatus: CompletionActive,
		},
	}
}
