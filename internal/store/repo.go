package store

import (
	"context"
	"errors"
	"time"

	entschema "github.com/abhisek/vitals/ent/schema"
)

// ErrSessionNotFound is returned when no session record matches.
var ErrSessionNotFound = errors.New("session record not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// CategoryScore is one breakdown row stored with a result.
type CategoryScore = entschema.CategoryScore

// ResultEventData is the evaluation of one completed assessment.
type ResultEventData struct {
	SessionID       string            `json:"session_id"`
	CatalogVersion  string            `json:"catalog_version"`
	Total           int               `json:"total"`
	Max             int               `json:"max"`
	Percentage      float64           `json:"percentage"`
	Tier            string            `json:"tier"`
	Answers         map[string]string `json:"answers"`
	Recommendations []string          `json:"recommendations"`
	Categories      []CategoryScore   `json:"categories"`
}

// ResultEventRecord is a stored result event.
type ResultEventRecord struct {
	ID        int       `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	ResultEventData
}

// ResultStats summarizes every stored result.
type ResultStats struct {
	Count          int            `json:"count"`
	AvgPercentage  float64        `json:"avg_percentage"`
	BestPercentage float64        `json:"best_percentage"`
	ByTier         map[string]int `json:"by_tier"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendResult records the result of a completed assessment.
	AppendResult(ctx context.Context, data ResultEventData) error

	// QueryResults returns result events, newest first.
	QueryResults(ctx context.Context, opts QueryOpts) ([]ResultEventRecord, error)

	// ResultStats aggregates all stored results.
	ResultStats(ctx context.Context) (ResultStats, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM request event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}

// SessionRecord is the persisted state of one assessment session.
type SessionRecord struct {
	SessionID      string            `json:"session_id"`
	CatalogVersion string            `json:"catalog_version"`
	Answers        map[string]string `json:"answers"`
	Cursor         int               `json:"cursor"`
	Complete       bool              `json:"complete"`
	Reported       bool              `json:"reported"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// SessionRepo persists the latest state of each assessment session.
type SessionRepo interface {
	// Save inserts or replaces the record for rec.SessionID.
	Save(ctx context.Context, rec SessionRecord) error

	// Load returns the record for id or ErrSessionNotFound.
	Load(ctx context.Context, id string) (SessionRecord, error)

	// Delete removes the record for id. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// LatestInProgress returns the most recently updated incomplete record
	// or ErrSessionNotFound.
	LatestInProgress(ctx context.Context) (SessionRecord, error)

	// DeleteInProgress removes every incomplete record and reports how many
	// were removed.
	DeleteInProgress(ctx context.Context) (int, error)
}
