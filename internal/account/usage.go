package account

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"kwallo/pkg/logging"
)

// UsageTracker aggregates per-user LLM usage in memory and flushes it to
// the usage_events table on an interval. Failed flushes are folded back
// into the in-memory counters and retried on the next tick.
type UsageTracker struct {
	db            *sql.DB
	logger        logging.Logger
	provider      string
	flushInterval time.Duration
	stopOnce      sync.Once
	stopCh        chan struct{}
	mu            sync.Mutex
	usageByUser   map[string]*userUsage
}

type userUsage struct {
	llmCalls         int
	promptTokens     int
	completionTokens int
}

type UsageTrackerConfig struct {
	DB            *sql.DB
	Logger        logging.Logger
	Provider      string
	FlushInterval time.Duration
}

func NewUsageTracker(cfg UsageTrackerConfig) *UsageTracker {
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	return &UsageTracker{
		db:            cfg.DB,
		logger:        cfg.Logger,
		provider:      cfg.Provider,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
		usageByUser:   make(map[string]*userUsage),
	}
}

func (t *UsageTracker) Start() {
	if t == nil {
		return
	}
	go t.loop()
}

func (t *UsageTracker) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

func (t *UsageTracker) RecordLLMCall(userID string, promptTokens, completionTokens int) {
	if t == nil || userID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	usage := t.ensureUser(userID)
	usage.llmCalls++
	usage.promptTokens += promptTokens
	usage.completionTokens += completionTokens
}

func (t *UsageTracker) loop() {
	ticker := time.NewTicker(t.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Flush(context.Background())
		case <-t.stopCh:
			t.Flush(context.Background())
			return
		}
	}
}

func (t *UsageTracker) Flush(ctx context.Context) {
	if t == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t.mu.Lock()
	if len(t.usageByUser) == 0 {
		t.mu.Unlock()
		return
	}
	snapshot := t.usageByUser
	t.usageByUser = make(map[string]*userUsage)
	t.mu.Unlock()

	for userID, usage := range snapshot {
		if usage.llmCalls == 0 {
			continue
		}
		if err := t.insertUsageRow(ctx, userID, usage); err != nil {
			t.requeueUsage(userID, usage)
		}
	}
}

func (t *UsageTracker) insertUsageRow(ctx context.Context, userID string, usage *userUsage) error {
	if t.db == nil {
		return nil
	}
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO usage_events (
			user_id,
			event_type,
			provider,
			prompt_tokens,
			completion_tokens,
			count,
			created_at
		) VALUES ($1, 'llm_call', $2, $3, $4, $5, NOW())
	`, userID, t.provider, usage.promptTokens, usage.completionTokens, usage.llmCalls)
	if err != nil && t.logger != nil {
		t.logger.WithError(err).WithField("user_id", userID).Warn("Failed to persist usage")
	}
	return err
}

func (t *UsageTracker) ensureUser(userID string) *userUsage {
	usage, ok := t.usageByUser[userID]
	if !ok {
		usage = &userUsage{}
		t.usageByUser[userID] = usage
	}
	return usage
}

func (t *UsageTracker) requeueUsage(userID string, usage *userUsage) {
	if userID == "" || usage == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	current := t.ensureUser(userID)
	current.llmCalls += usage.llmCalls
	current.promptTokens += usage.promptTokens
	current.completionTokens += usage.completionTokens
}
