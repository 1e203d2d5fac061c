// Package view decides which of the three mutually exclusive views the
// current state renders, as an explicit tagged variant instead of nullable
// field checks scattered across handlers. The per-role complaint filters
// here are the only visibility mechanism in the system.
package view

import "zenitsuos/backend/internal/models"

type Kind string

const (
	KindLogin  Kind = "login"
	KindMember Kind = "member"
	KindAdmin  Kind = "admin"
)

// View is the resolved variant: Unauthenticated (User == nil), Member, or
// Admin.
type View struct {
	Kind Kind
	User *models.User
}

// Resolve maps the current user to a view variant. Any role other than
// ADMIN renders the member view.
func Resolve(user *models.User) View {
	if user == nil {
		return View{Kind: KindLogin}
	}
	if user.Role == models.RoleAdmin {
		return View{Kind: KindAdmin, User: user}
	}
	return View{Kind: KindMember, User: user}
}

// FilterForMember keeps only the complaints filed by userID, preserving
// order.
func FilterForMember(all []models.Complaint, userID string) []models.Complaint {
	out := make([]models.Complaint, 0, len(all))
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// FilterForAdmin keeps only the complaints filed under communityID,
// preserving order. An admin without a community sees nothing.
func FilterForAdmin(all []models.Complaint, communityID string) []models.Complaint {
	if communityID == "" {
		return []models.Complaint{}
	}
	out := make([]models.Complaint, 0, len(all))
	for _, c := range all {
		if c.CommunityID == communityID {
			out = append(out, c)
		}
	}
	return out
}

// Scoped applies the visibility rule for v to the full complaint list.
func Scoped(v View, all []models.Complaint) []models.Complaint {
	switch v.Kind {
	case KindAdmin:
		return FilterForAdmin(all, v.User.CommunityID)
	case KindMember:
		return FilterForMember(all, v.User.ID)
	}
	return []models.Complaint{}
}

// StatusCounts tallies the dashboard stat cards.
func StatusCounts(list []models.Complaint) map[models.ComplaintStatus]int {
	counts := map[models.ComplaintStatus]int{
		models.StatusPending:    0,
		models.StatusInProgress: 0,
		models.StatusResolved:   0,
	}
	for _, c := range list {
		counts[c.Status]++
	}
	return counts
}
