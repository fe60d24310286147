package audit

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	entry := NewEntry().
		Service("jalapeno-api").
		Route("/graphs/{collection}/shortest_path").
		Action(ActionCompute).
		Outcome(OutcomeSuccess).
		Client("127.0.0.1", "test-agent").
		Resource("graph", "igp_nodes").
		RequestID("req-789").
		Duration(100 * time.Millisecond).
		Meta("key1", "value1").
		Build()

	if entry.Service != "jalapeno-api" {
		t.Errorf("expected service 'jalapeno-api', got %s", entry.Service)
	}
	if entry.Route != "/graphs/{collection}/shortest_path" {
		t.Errorf("unexpected route %s", entry.Route)
	}
	if entry.Action != ActionCompute {
		t.Errorf("expected action COMPUTE, got %s", entry.Action)
	}
	if entry.Outcome != OutcomeSuccess {
		t.Errorf("expected outcome SUCCESS, got %s", entry.Outcome)
	}
	if entry.ClientIP != "127.0.0.1" {
		t.Errorf("expected clientIP '127.0.0.1', got %s", entry.ClientIP)
	}
	if entry.Resource != "graph" {
		t.Errorf("expected resource 'graph', got %s", entry.Resource)
	}
	if entry.ResourceID != "igp_nodes" {
		t.Errorf("expected resourceID 'igp_nodes', got %s", entry.ResourceID)
	}
	if entry.RequestID != "req-789" {
		t.Errorf("expected requestID 'req-789', got %s", entry.RequestID)
	}
	if entry.DurationMs != 100 {
		t.Errorf("expected durationMs 100, got %d", entry.DurationMs)
	}
	if entry.Metadata["key1"] != "value1" {
		t.Errorf("expected metadata key1='value1', got %v", entry.Metadata["key1"])
	}
	if entry.ID == "" {
		t.Error("expected ID to be generated")
	}
}

func TestBuilder_Error(t *testing.T) {
	entry := NewEntry().
		Service("jalapeno-api").
		Route("/graphs/{collection}/shortest_path").
		Action(ActionRead).
		Outcome(OutcomeFailure).
		Error("NOT_FOUND", "destination unreachable").
		Build()

	if entry.ErrorCode != "NOT_FOUND" {
		t.Errorf("expected errorCode 'NOT_FOUND', got %s", entry.ErrorCode)
	}
	if entry.ErrorMessage != "destination unreachable" {
		t.Errorf("expected errorMessage 'destination unreachable', got %s", entry.ErrorMessage)
	}
}

func TestBuilder_Changes(t *testing.T) {
	changes := &ChangeSet{
		Before: map[string]any{"load": float64(70)},
		After:  map[string]any{"load": float64(80)},
		Fields: []string{"load"},
	}

	entry := NewEntry().
		Service("jalapeno-api").
		Changes(changes).
		Build()

	if entry.Changes == nil {
		t.Fatal("expected changes to be set")
	}
	if entry.Changes.Before["load"] != float64(70) {
		t.Errorf("expected before load 70, got %v", entry.Changes.Before["load"])
	}
	if entry.Changes.After["load"] != float64(80) {
		t.Errorf("expected after load 80, got %v", entry.Changes.After["load"])
	}
}

func TestEntry_MarshalJSON(t *testing.T) {
	entry := NewEntry().
		Service("jalapeno-api").
		Route("/rpo/{collection_name}/select-optimal").
		Action(ActionSelect).
		Outcome(OutcomeSuccess).
		Build()

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("failed to marshal entry: %v", err)
	}

	var decoded Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal entry: %v", err)
	}

	if decoded.Service != entry.Service {
		t.Errorf("expected service %s, got %s", entry.Service, decoded.Service)
	}
	if decoded.Action != entry.Action {
		t.Errorf("expected action %s, got %s", entry.Action, decoded.Action)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("expected enabled to be true by default")
	}
	if cfg.Backend != "stdout" {
		t.Errorf("expected backend 'stdout', got %s", cfg.Backend)
	}
	if cfg.BufferSize != 1000 {
		t.Errorf("expected buffer size 1000, got %d", cfg.BufferSize)
	}
	if cfg.FlushPeriod != 5*time.Second {
		t.Errorf("expected flush period 5s, got %v", cfg.FlushPeriod)
	}
}

func TestAction_Constants(t *testing.T) {
	actions := []struct {
		action   Action
		expected string
	}{
		{ActionRead, "READ"},
		{ActionUpdate, "UPDATE"},
		{ActionCompute, "COMPUTE"},
		{ActionSelect, "SELECT"},
	}

	for _, tc := range actions {
		if string(tc.action) != tc.expected {
			t.Errorf("expected action %s, got %s", tc.expected, tc.action)
		}
	}
}

func TestOutcome_Constants(t *testing.T) {
	outcomes := []struct {
		outcome  Outcome
		expected string
	}{
		{OutcomeSuccess, "SUCCESS"},
		{OutcomeFailure, "FAILURE"},
		{OutcomeNotFound, "NOT_FOUND"},
	}

	for _, tc := range outcomes {
		if string(tc.outcome) != tc.expected {
			t.Errorf("expected outcome %s, got %s", tc.expected, tc.outcome)
		}
	}
}

func TestQueryFilter(t *testing.T) {
	now := time.Now()
	filter := &QueryFilter{
		StartTime:  &now,
		EndTime:    &now,
		Service:    "jalapeno-api",
		Route:      "/graphs/{collection}/shortest_path",
		Action:     ActionCompute,
		Outcome:    OutcomeSuccess,
		Resource:   "graph",
		ResourceID: "igp_nodes",
		Limit:      100,
		Offset:     0,
	}

	if filter.Service != "jalapeno-api" {
		t.Errorf("expected service 'jalapeno-api', got %s", filter.Service)
	}
	if filter.Limit != 100 {
		t.Errorf("expected limit 100, got %d", filter.Limit)
	}
}

func TestGenerateID(t *testing.T) {
	id1 := generateID()
	id2 := generateID()

	if id1 == "" {
		t.Error("expected non-empty ID")
	}
	if id1 == id2 {
		t.Error("expected distinct IDs for successive calls")
	}
	if len(id1) < 14 {
		t.Error("expected ID to contain a timestamp prefix")
	}
}
