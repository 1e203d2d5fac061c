package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus enum. Transitions are unrestricted in either direction;
// an admin may move a complaint back to PENDING after resolving it.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
)

// Valid reports whether s is one of the known statuses.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Location is the payload the browser's geolocation collaborator produced.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// DisplayAddress returns the captured address, falling back to the
// coordinate string the dashboard renders.
func (l Location) DisplayAddress() string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("Lat: %.4f, Lng: %.4f", l.Lat, l.Lng)
}

// Complaint is a user-filed issue report. UserName is a snapshot of the
// reporter's name at submission time and is never refreshed; CommunityID is
// captured from the submitting user and immutable thereafter.
type Complaint struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserName    string          `json:"userName"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Location    *Location       `json:"location,omitempty"`
	Status      ComplaintStatus `json:"status"`
	Timestamp   int64           `json:"timestamp"`
	CommunityID string          `json:"communityId"`
}

// NewComplaintID mints a complaint id. The uuid suffix keeps two
// submissions within the same millisecond distinct.
func NewComplaintID(now time.Time) string {
	return fmt.Sprintf("C-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
