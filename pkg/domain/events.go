package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventIngest      EventType = "ingest"
	EventIngestError EventType = "ingest_reprojection_error"
)

// IngestEvent describes one ingestion attempt on an actor.
type IngestEvent struct {
	Timestamp time.Time    `json:"timestamp"`
	Type      EventType    `json:"type"`
	BatchID   string       `json:"batch_id"`
	Actor     string       `json:"actor"`
	Tracker   string       `json:"tracker"`
	Frames    int          `json:"frames"`
	Landmarks int          `json:"landmarks"`
	Aspects   []AspectName `json:"aspects,omitempty"`
	Err       error        `json:"-"`
}

// LifecycleHooks defines callbacks for actor observability.
type LifecycleHooks struct {
	OnIngest func(*IngestEvent)
	OnReject func(*IngestEvent)
}
