package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/view"
)

func TestResolve_Variants(t *testing.T) {
	assert.Equal(t, view.KindLogin, view.Resolve(nil).Kind)

	adminUser := &models.User{ID: "a1", Role: models.RoleAdmin}
	v := view.Resolve(adminUser)
	assert.Equal(t, view.KindAdmin, v.Kind)
	assert.Same(t, adminUser, v.User)

	memberUser := &models.User{ID: "m1", Role: models.RoleUser}
	v = view.Resolve(memberUser)
	assert.Equal(t, view.KindMember, v.Kind)
	assert.Same(t, memberUser, v.User)
}

func TestResolve_UnknownRoleRendersMember(t *testing.T) {
	v := view.Resolve(&models.User{ID: "x", Role: "MODERATOR"})
	assert.Equal(t, view.KindMember, v.Kind)
}

func crossCommunityFixture() []models.Complaint {
	return []models.Complaint{
		{ID: "c1", UserID: "m1", CommunityID: "A"},
		{ID: "c2", UserID: "m2", CommunityID: "B"},
		{ID: "c3", UserID: "m1", CommunityID: "A"},
		{ID: "c4", UserID: "m3", CommunityID: "B"},
	}
}

func TestFilterForAdmin_NeverLeaksAcrossCommunities(t *testing.T) {
	all := crossCommunityFixture()

	forA := view.FilterForAdmin(all, "A")
	require.Len(t, forA, 2)
	for _, c := range forA {
		assert.Equal(t, "A", c.CommunityID)
	}

	forB := view.FilterForAdmin(all, "B")
	require.Len(t, forB, 2)
	for _, c := range forB {
		assert.Equal(t, "B", c.CommunityID)
	}
}

func TestFilterForAdmin_NoCommunitySeesNothing(t *testing.T) {
	assert.Empty(t, view.FilterForAdmin(crossCommunityFixture(), ""))
}

func TestFilterForMember_OwnComplaintsOnly(t *testing.T) {
	got := view.FilterForMember(crossCommunityFixture(), "m1")
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID, "filtering preserves order")
}

func TestScoped_PerVariant(t *testing.T) {
	all := crossCommunityFixture()

	adminA := view.Resolve(&models.User{ID: "a1", Role: models.RoleAdmin, CommunityID: "A"})
	assert.Len(t, view.Scoped(adminA, all), 2)

	m1 := view.Resolve(&models.User{ID: "m1", Role: models.RoleUser, CommunityID: "A"})
	assert.Len(t, view.Scoped(m1, all), 2)

	assert.Empty(t, view.Scoped(view.View{Kind: view.KindLogin}, all))
}

func TestStatusCounts(t *testing.T) {
	counts := view.StatusCounts([]models.Complaint{
		{Status: models.StatusPending},
		{Status: models.StatusPending},
		{Status: models.StatusResolved},
	})

	assert.Equal(t, 2, counts[models.StatusPending])
	assert.Equal(t, 0, counts[models.StatusInProgress])
	assert.Equal(t, 1, counts[models.StatusResolved])
}
