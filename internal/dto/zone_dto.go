package dto

// ZoneStateEntry is the per-zone payload inside the states map.
type ZoneStateEntry struct {
	State     string `json:"state"`
	UpdatedBy string `json:"updated_by"`
	UpdatedAt string `json:"updated_at"`
	Notes     string `json:"notes,omitempty"`
}

type ZoneStatesResponse struct {
	Success bool                      `json:"success"`
	States  map[string]ZoneStateEntry `json:"states"`
}

type UpdateZoneStateRequest struct {
	ZoneName string `json:"zone_name"`
	State    string `json:"state"`
	Notes    string `json:"notes,omitempty"`
}

type BulkUpdateRequest struct {
	Updates []UpdateZoneStateRequest `json:"updates"`
}

// SkippedUpdate explains why one bulk item was not applied.
type SkippedUpdate struct {
	ZoneName string `json:"zone_name"`
	Reason   string `json:"reason"`
}

type BulkUpdateResponse struct {
	Success bool            `json:"success"`
	Updated int             `json:"updated"`
	Skipped []SkippedUpdate `json:"skipped,omitempty"`
	Message string          `json:"message"`
}
