package crimes

import "time"

// Status is the lifecycle state of an organized crime as reported by the
// Torn API.
type Status string

const (
	StatusRecruiting Status = "Recruiting"
	StatusPlanning   Status = "Planning"
	StatusExecuted   Status = "Executed"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusExpired    Status = "Expired"
)

// IsActive reports whether a crime is still being staffed. Only active
// crimes are evaluated against CPR requirements.
func (s Status) IsActive() bool {
	return s == StatusRecruiting || s == StatusPlanning
}

// Slot is a single position within a crime. A slot with no assigned user
// has UserID 0.
type Slot struct {
	Position string `json:"position"`
	UserID   int64  `json:"user_id"`
	CPR      int    `json:"cpr"`
}

// Occupied reports whether a user currently holds the slot.
func (s Slot) Occupied() bool {
	return s.UserID != 0
}

// Crime is one organized crime with its participant slots.
type Crime struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
	Status     Status `json:"status"`
	Slots      []Slot `json:"slots"`
}

// Snapshot is a full fetch of the faction's crimes at a point in time.
// Snapshots are replaced wholesale; there is no incremental merge.
type Snapshot struct {
	Crimes    []Crime   `json:"crimes"`
	FetchedAt time.Time `json:"fetched_at"`
}
