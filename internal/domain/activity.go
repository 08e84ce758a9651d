package domain

import "time"

// ActivityLogEntry is the audit sink write contract. Writes are fire and
// forget: a failed audit write is logged and never surfaced to the caller.
type ActivityLogEntry struct {
	ID          string         `json:"id"`
	ActorID     *string        `json:"actor_id,omitempty"`
	Action      string         `json:"action"`
	Module      string         `json:"module"`
	Description string         `json:"description"`
	DataBefore  map[string]any `json:"data_before,omitempty"`
	DataAfter   map[string]any `json:"data_after,omitempty"`
	CreatedOn   time.Time      `json:"created_on"`
}
