package session

import "zenitsuos/backend/internal/models"

// EventKind names a state transition the container publishes after it has
// been applied and persisted.
type EventKind string

const (
	EventLogin            EventKind = "login"
	EventLogout           EventKind = "logout"
	EventComplaintCreated EventKind = "complaint.created"
	EventComplaintStatus  EventKind = "complaint.status"
	EventCommunityCreated EventKind = "community.created"
	EventMemberInvited    EventKind = "community.member"
)

// ChangeEvent carries the entity the transition touched. Dashboards use it
// to re-render; the notifier uses it to message the admin.
type ChangeEvent struct {
	Kind      EventKind         `json:"kind"`
	User      *models.User      `json:"user,omitempty"`
	Complaint *models.Complaint `json:"complaint,omitempty"`
	Community *models.Community `json:"community,omitempty"`
	Invite    *models.Invite    `json:"invite,omitempty"`
}
