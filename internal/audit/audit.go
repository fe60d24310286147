// Package audit provides components for capturing, storing, and querying
// audit logs for the mutating operations this API exposes (edge load
// updates, RPO selections). Grounded on pkg/audit/audit.go: the Entry/
// Builder/Logger/Config shape is unchanged; Action is narrowed to the
// actions this API actually performs (no LOGIN/LOGOUT — there is no
// authenticated-user concept in this spec).
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// Action represents the type of action performed in an audit event.
type Action string

const (
	// ActionRead indicates a read-only path/graph query.
	ActionRead Action = "READ"
	// ActionUpdate indicates an edge load update.
	ActionUpdate Action = "UPDATE"
	// ActionCompute indicates a path-engine computation
	// (shortest_path, best_paths, next_best_paths).
	ActionCompute Action = "COMPUTE"
	// ActionSelect indicates an RPO endpoint selection.
	ActionSelect Action = "SELECT"
)

// Outcome represents the result of an audit action.
type Outcome string

const (
	// OutcomeSuccess indicates that the action completed successfully.
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeFailure indicates that the action failed due to an error.
	OutcomeFailure Outcome = "FAILURE"
	// OutcomeNotFound indicates the action completed but found no result
	// (e.g. a path computation that found no route).
	OutcomeNotFound Outcome = "NOT_FOUND"
)

// Entry represents a single audit log record, capturing details about an event.
type Entry struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Service      string         `json:"service"`
	Route        string         `json:"route"`
	Action       Action         `json:"action"`
	Outcome      Outcome        `json:"outcome"`
	ClientIP     string         `json:"client_ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	Resource     string         `json:"resource,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Changes      *ChangeSet     `json:"changes,omitempty"`
}

// ChangeSet describes changes made to a resource, useful for load updates.
type ChangeSet struct {
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
	Fields []string       `json:"fields,omitempty"`
}

// Logger is the interface that audit loggers must implement.
type Logger interface {
	Log(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, filter *QueryFilter) ([]*Entry, error)
	Close() error
}

// QueryFilter defines criteria for querying audit log entries.
type QueryFilter struct {
	StartTime  *time.Time
	EndTime    *time.Time
	Service    string
	Route      string
	Action     Action
	Outcome    Outcome
	Resource   string
	ResourceID string
	Limit      int
	Offset     int
}

// Config holds configuration parameters for the audit logger.
type Config struct {
	Enabled     bool          `koanf:"enabled"`
	Backend     string        `koanf:"backend"` // stdout, file
	FilePath    string        `koanf:"file_path"`
	BufferSize  int           `koanf:"buffer_size"`
	FlushPeriod time.Duration `koanf:"flush_period"`

	ExcludeRoutes []string `koanf:"exclude_routes"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Backend:     "stdout",
		BufferSize:  1000,
		FlushPeriod: 5 * time.Second,
	}
}

// Builder provides a fluent API for constructing an Entry object.
type Builder struct {
	entry *Entry
}

// NewEntry creates and returns a new Builder initialized with a timestamp
// and an empty metadata map.
func NewEntry() *Builder {
	return &Builder{
		entry: &Entry{
			Timestamp: time.Now(),
			Metadata:  make(map[string]any),
		},
	}
}

func (b *Builder) Service(s string) *Builder {
	b.entry.Service = s
	return b
}

func (b *Builder) Route(r string) *Builder {
	b.entry.Route = r
	return b
}

func (b *Builder) Action(a Action) *Builder {
	b.entry.Action = a
	return b
}

func (b *Builder) Outcome(o Outcome) *Builder {
	b.entry.Outcome = o
	return b
}

func (b *Builder) Client(ip, userAgent string) *Builder {
	b.entry.ClientIP = ip
	b.entry.UserAgent = userAgent
	return b
}

func (b *Builder) Resource(resource, resourceID string) *Builder {
	b.entry.Resource = resource
	b.entry.ResourceID = resourceID
	return b
}

func (b *Builder) RequestID(id string) *Builder {
	b.entry.RequestID = id
	return b
}

func (b *Builder) Duration(d time.Duration) *Builder {
	b.entry.DurationMs = d.Milliseconds()
	return b
}

func (b *Builder) Error(code, message string) *Builder {
	b.entry.ErrorCode = code
	b.entry.ErrorMessage = message
	return b
}

func (b *Builder) Meta(key string, value any) *Builder {
	b.entry.Metadata[key] = value
	return b
}

func (b *Builder) Changes(changes *ChangeSet) *Builder {
	b.entry.Changes = changes
	return b
}

// Build finalizes the Entry construction, generating an ID if unset.
func (b *Builder) Build() *Entry {
	if b.entry.ID == "" {
		b.entry.ID = generateID()
	}
	return b.entry
}

// MarshalJSON customizes the JSON serialization of an Entry.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal((*Alias)(e))
}

var idSeq atomic.Uint64

// generateID creates a unique-enough ID from a timestamp and a monotonic
// counter — avoids a wall-clock-only ID colliding across rapid entries.
func generateID() string {
	n := idSeq.Add(1)
	return fmt.Sprintf("%s-%06d", time.Now().Format("20060102150405.000000"), n)
}
