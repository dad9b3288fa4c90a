package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned wrapper for governance integration
// events (proposal.created, vote.cast, proposal.resolved,
// proposal.status_overridden). The outbox stores envelopes verbatim and the
// relay republishes them unchanged, so this shape is the wire contract and
// must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}
