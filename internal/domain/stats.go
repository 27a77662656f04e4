package domain

// Stats are relay-wide counters exposed on the HTTP surface.
type Stats struct {
	Sessions     int `json:"sessions"`
	Clients      int `json:"clients"`
	StoredStates int `json:"stored_states"`
}
