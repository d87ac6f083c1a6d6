package domain

import "time"

// ProgressEvent is one report emitted to a progress sink
type ProgressEvent struct {
	Message string    `json:"message"`
	Percent int       `json:"percent"`
	Done    bool      `json:"done"`
	Link    string    `json:"link,omitempty"`
	At      time.Time `json:"at"`
}
