// Package summary asks Gemini for a condensed read of the current insight
// board. The collaborator is a black box: one request, one response, no
// retry and no streaming. Any failure collapses to a fixed user-facing
// message so the board stays usable without it.
package summary

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"market-weekly/cache"
	"market-weekly/models"
)

// FailureMessage is returned in place of a summary on any error.
const FailureMessage = "Summary generation failed. Check the AI configuration and try again later."

const cacheTTL = time.Hour

// Service generates market summaries, caching results by a hash of the
// insight data so unchanged boards do not trigger repeat calls.
type Service struct {
	client *genai.Client
	model  string
	cache  *cache.RedisClient
}

// New creates a summary service. client may be nil (feature disabled);
// redisClient may be nil (caching disabled).
func New(client *genai.Client, model string, redisClient *cache.RedisClient) *Service {
	return &Service{client: client, model: model, cache: redisClient}
}

// Enabled reports whether a summary backend is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// MarketSummary returns a free-text analysis of the given insights, or
// FailureMessage when the backend is unavailable or errors.
func (s *Service) MarketSummary(ctx context.Context, insights []models.MarketInsight) string {
	if !s.Enabled() {
		return FailureMessage
	}

	hash := dataHash(insights)
	cacheKey := "summary:market:" + hash
	var cached string
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
		return cached
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(buildPrompt(insights)), nil)
	if err != nil {
		log.Printf("⚠️  Summary generation failed: %v", err)
		return FailureMessage
	}

	text := resp.Text()
	if text == "" {
		return FailureMessage
	}

	if err := s.cache.Set(ctx, cacheKey, text, cacheTTL); err == nil {
		log.Printf("💾 Cached market summary for hash %s", hash)
	}
	return text
}

func buildPrompt(insights []models.MarketInsight) string {
	var b strings.Builder
	b.WriteString("You are a seasoned macro trader. Based on the live market calls below, write a very concise playbook read.\n\nCurrent calls:\n")
	for _, in := range insights {
		fmt.Fprintf(&b, "- %s (%s): %s Strategy: %s\n", in.Symbol, in.Status, in.FocusPoints, in.Strategy)
	}
	b.WriteString("\nStructure the output as:\n")
	b.WriteString("1. Core logic: one sentence on what is really driving the tape.\n")
	b.WriteString("2. Asset focus: deep take on the one or two highest-conviction calls.\n")
	b.WriteString("3. Risk watch: the black-swan direction to guard against right now.\n")
	b.WriteString("\nTone: calm, sharp, no filler. Around 300 words.\n")
	return b.String()
}

// dataHash fingerprints the insight data so the cache invalidates when the
// board changes.
func dataHash(insights []models.MarketInsight) string {
	jsonData, _ := json.Marshal(insights)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8])
}
