package models

import (
	"strings"

	"github.com/google/uuid"
)

// Community is a named group owned by exactly one admin. AdminID is set at
// creation and never changes; MemberIDs always contains AdminID and only
// ever grows (there is no removal operation).
type Community struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	AdminID   string   `json:"adminId"`
	MemberIDs []string `json:"memberIds"`
	// Invites records what AddMember was actually given. The member id it
	// minted is synthetic and never resolves to a real User, so the invite
	// keeps the email addressable for the admin view.
	Invites []Invite `json:"invites,omitempty"`
}

// Invite is a pending membership: an email the admin added before any real
// user record exists for it. MemberID is the synthetic id that was appended
// to the community's MemberIDs.
type Invite struct {
	MemberID    string `json:"memberId"`
	CommunityID string `json:"communityId"`
	Email       string `json:"email"`
	InvitedAt   int64  `json:"invitedAt"`
}

// HasMember reports whether id is in the member list.
func (c *Community) HasMember(id string) bool {
	for _, m := range c.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// NewCommunityID mints an opaque community id.
func NewCommunityID() string {
	return uuid.NewString()
}

// NewInviteMemberID mints the synthetic member id recorded for an invite.
func NewInviteMemberID() string {
	return "invite-" + uuid.NewString()
}

// IsInviteMemberID reports whether id was minted by NewInviteMemberID.
func IsInviteMemberID(id string) bool {
	return strings.HasPrefix(id, "invite-")
}
