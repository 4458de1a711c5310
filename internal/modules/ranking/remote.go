package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/rs/zerolog"
)

// remoteRankResponse is the JSON shape expected back from the remote
// ranker for one signal (spec §4.4).
type remoteRankResponse struct {
	Score      float64 `json:"score"`
	Outlook    string  `json:"outlook"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// RemoteRanker scores signals via a remote LLM, batching the current
// signal set and indicator snapshot into one prompt per spec §4.4.
// Concurrency is bounded by a semaphore with a minimum inter-call delay,
// matching spec §5's "LLM ranker has its own bounded concurrency
// semaphore" note. Grounded on the teacher's ternarybob-quaero-style
// Claude client wiring (ClaudeService.generateCompletion).
type RemoteRanker struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	log       zerolog.Logger

	sem           chan struct{}
	minInterCall  time.Duration
	mu            sync.Mutex
	lastCallAt    time.Time
}

// RemoteRankerConfig controls RemoteRanker construction.
type RemoteRankerConfig struct {
	APIKey          string
	Model           string // defaults to claude-sonnet-4-20250514
	MaxTokens       int64  // defaults to 2048
	MaxConcurrency  int    // defaults to 2
	MinInterCallGap time.Duration // defaults to 500ms
}

// NewRemoteRanker builds a RemoteRanker from cfg.
func NewRemoteRanker(cfg RemoteRankerConfig, log zerolog.Logger) *RemoteRanker {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	gap := cfg.MinInterCallGap
	if gap <= 0 {
		gap = 500 * time.Millisecond
	}

	return &RemoteRanker{
		client:       anthropicClient(cfg.APIKey),
		model:        model,
		maxTokens:    maxTokens,
		log:          log.With().Str("component", "ranking.remote").Logger(),
		sem:          make(chan struct{}, concurrency),
		minInterCall: gap,
	}
}

func anthropicClient(apiKey string) *anthropic.Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &client
}

// throttle takes a semaphore slot and waits out the minimum inter-call gap.
// The caller holds the slot for the duration of its remote call and
// releases it with <-r.sem.
func (r *RemoteRanker) throttle() {
	r.sem <- struct{}{}

	r.mu.Lock()
	wait := r.minInterCall - time.Since(r.lastCallAt)
	r.mu.Unlock()
	if wait > 0 {
		time.Sleep(wait)
	}
	r.mu.Lock()
	r.lastCallAt = time.Now()
	r.mu.Unlock()
}

// Rank implements Ranker. On any failure (timeout, transport, malformed
// response) it returns an error; callers should compose RemoteRanker
// behind FallbackRanker rather than use it standalone (spec §4.4).
func (r *RemoteRanker) Rank(ctx context.Context, signals []domain.Signal, frame domain.IndicatorFrame, cfg profile.ConfigContext) ([]domain.Signal, error) {
	if len(signals) == 0 {
		return nil, nil
	}

	r.throttle()
	defer func() { <-r.sem }()

	prompt := buildRankingPrompt(signals, frame)
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: r.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: "You are a technical-analysis signal ranker. Respond with a JSON array only, one object per input signal in the same order, each with fields score (0-100), outlook, action, confidence (0-1), summary."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, domain.Wrap(domain.CodeRankerError, "remote ranker call failed", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, domain.NewError(domain.CodeRankerError, "remote ranker returned an empty response")
	}

	var parsed []remoteRankResponse
	if err := json.Unmarshal([]byte(extractJSONArray(text.String())), &parsed); err != nil {
		return nil, domain.Wrap(domain.CodeRankerError, "remote ranker returned malformed JSON", err)
	}
	if len(parsed) != len(signals) {
		return nil, domain.NewError(domain.CodeRankerError, fmt.Sprintf("remote ranker returned %d results for %d signals", len(parsed), len(signals)))
	}

	out := make([]domain.Signal, len(signals))
	for i, s := range signals {
		rationale := fmt.Sprintf("%s | action=%s confidence=%.2f", parsed[i].Summary, parsed[i].Action, parsed[i].Confidence)
		out[i] = s.WithScore(clampScore(parsed[i].Score), rationale)
	}
	sortByScoreDescending(out)
	return out, nil
}

func buildRankingPrompt(signals []domain.Signal, frame domain.IndicatorFrame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n", frame.Series.Symbol)
	fmt.Fprintf(&b, "Signals (%d):\n", len(signals))
	for i, s := range signals {
		value := "n/a"
		if s.Value != nil {
			value = fmt.Sprintf("%.4f", *s.Value)
		}
		fmt.Fprintf(&b, "%d. [%s/%s] %s: %s (value=%s)\n", i+1, s.Category, s.Strength, s.Name, s.Description, value)
	}
	return b.String()
}

// extractJSONArray trims any leading/trailing prose the model added around
// the JSON array, taking the substring between the first '[' and the last
// ']'.
func extractJSONArray(s string) string {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
