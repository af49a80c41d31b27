// internal/app/features/connections/types.go
package connections

// respondRequest is the body for POST /connections/respond.
type respondRequest struct {
	ConnectionID string `json:"connectionId"`
	Accept       bool   `json:"accept"`
}

// removeRequest is the body for POST /connections/remove.
type removeRequest struct {
	ConnectionID string `json:"connectionId"`
}

// pendingEntry is one row in the pending-requests listing.
type pendingEntry struct {
	UserID      string `json:"userId"`
	FullName    string `json:"fullName"`
	Headline    string `json:"headline,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// statusResponse reports the caller's relationship to another profile.
type statusResponse struct {
	Connected       bool `json:"connected"`
	PendingSent     bool `json:"pendingSent"`
	PendingReceived bool `json:"pendingReceived"`
}
