// Package session owns the authoritative in-memory copies of the current
// user, the complaint list and the community list. Every mutation goes
// through the Container, which writes the affected documents back to the
// store before returning; nothing else touches the store.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"zenitsuos/backend/internal/models"
	"zenitsuos/backend/internal/storage"
	"zenitsuos/backend/internal/view"
)

var (
	ErrNoUser       = errors.New("session: no current user")
	ErrNoCommunity  = errors.New("session: user has no community")
	ErrNameRequired = errors.New("session: name required")
)

const eventBuffer = 16

// Container is the session/state container. All mutations run under one
// lock so compound transitions (CreateCommunity touches both the community
// list and the current user) are visible atomically.
type Container struct {
	mu    sync.RWMutex
	store storage.Store

	user        *models.User
	complaints  []models.Complaint
	communities []models.Community
	ready       bool

	subMu       sync.Mutex
	subscribers []chan ChangeEvent
}

func New(store storage.Store) *Container {
	return &Container{store: store}
}

// Restore populates in-memory state from whatever the store holds. Absent
// keys default to no user / empty lists. A document that fails to decode is
// treated as absent rather than letting a parse error reach the render
// path. Marks the container ready when done; callers must not serve views
// before that.
func (c *Container) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.complaints = nil
	c.communities = nil

	// Decode into locals and assign only on success: Unmarshal partially
	// populates its destination before reporting an element-level error,
	// and a half-decoded list must not survive.
	var user models.User
	if loadDocument(c.store, storage.KeyUser, &user) {
		c.user = &user
	}
	var complaints []models.Complaint
	if loadDocument(c.store, storage.KeyComplaints, &complaints) {
		c.complaints = complaints
	}
	var communities []models.Community
	if loadDocument(c.store, storage.KeyCommunities, &communities) {
		c.communities = communities
	}

	c.ready = true
}

func loadDocument(store storage.Store, key string, dst any) bool {
	raw, ok, err := store.Load(key)
	if err != nil {
		log.Printf("session: load %q: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Fail closed: a corrupt document restores as absent.
		log.Printf("session: discarding corrupt %q document: %v", key, err)
		return false
	}
	return true
}

// Ready reports whether Restore has completed.
func (c *Container) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Login sets the current user to the caller-supplied identity (trusted
// verbatim, including the role) and persists it.
func (c *Container) Login(user models.User) {
	c.mu.Lock()
	u := user
	c.user = &u
	c.persist(storage.KeyUser, c.user)
	c.mu.Unlock()

	c.publish(ChangeEvent{Kind: EventLogin, User: &u})
}

// Logout clears the current user. Complaints and communities stay persisted
// for the next login.
func (c *Container) Logout() {
	c.mu.Lock()
	c.user = nil
	if err := c.store.Clear(storage.KeyUser); err != nil {
		log.Printf("session: clear user: %v", err)
	}
	c.mu.Unlock()

	c.publish(ChangeEvent{Kind: EventLogout})
}

// CurrentUser returns a copy of the current user.
func (c *Container) CurrentUser() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// AddComplaint prepends the complaint. Newest-first is insertion order, not
// timestamp order: a new item sorts before every existing one regardless of
// its timestamp value.
func (c *Container) AddComplaint(complaint models.Complaint) {
	c.mu.Lock()
	c.prependComplaintLocked(complaint)
	c.mu.Unlock()

	c.publish(ChangeEvent{Kind: EventComplaintCreated, Complaint: &complaint})
}

// prependComplaintLocked prepends and persists. Callers hold the write
// lock.
func (c *Container) prependComplaintLocked(complaint models.Complaint) {
	c.complaints = append([]models.Complaint{complaint}, c.complaints...)
	c.persist(storage.KeyComplaints, c.complaints)
}

// SubmitComplaint builds a complaint from the current user and adds it.
// Rejected when there is no user or the user has no community; the list is
// untouched in either case. Validation and the prepend share one critical
// section, so a concurrent logout cannot land between them.
func (c *Container) SubmitComplaint(title, description, image string, location *models.Location) (models.Complaint, error) {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return models.Complaint{}, ErrNoUser
	}
	if c.user.CommunityID == "" {
		c.mu.Unlock()
		return models.Complaint{}, ErrNoCommunity
	}

	now := time.Now()
	complaint := models.Complaint{
		ID:          models.NewComplaintID(now),
		UserID:      c.user.ID,
		UserName:    c.user.Name,
		Title:       title,
		Description: description,
		Image:       image,
		Location:    location,
		Status:      models.StatusPending,
		Timestamp:   now.UnixMilli(),
		CommunityID: c.user.CommunityID,
	}
	c.prependComplaintLocked(complaint)
	c.mu.Unlock()

	c.publish(ChangeEvent{Kind: EventComplaintCreated, Complaint: &complaint})
	return complaint, nil
}

// UpdateComplaintStatus replaces the status of the matching complaint in
// place, leaving every other field untouched. An unknown id is a silent
// no-op.
func (c *Container) UpdateComplaintStatus(id string, status models.ComplaintStatus) {
	c.mu.Lock()
	var updated *models.Complaint
	for i := range c.complaints {
		if c.complaints[i].ID == id {
			c.complaints[i].Status = status
			cp := c.complaints[i]
			updated = &cp
			break
		}
	}
	if updated != nil {
		c.persist(storage.KeyComplaints, c.complaints)
	}
	c.mu.Unlock()

	if updated != nil {
		c.publish(ChangeEvent{Kind: EventComplaintStatus, Complaint: updated})
	}
}

// ComplaintByID returns a copy of the matching complaint.
func (c *Container) ComplaintByID(id string) (models.Complaint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, complaint := range c.complaints {
		if complaint.ID == id {
			return complaint, true
		}
	}
	return models.Complaint{}, false
}

// Complaints returns a copy of the full list, newest first.
func (c *Container) Complaints() []models.Complaint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Complaint(nil), c.complaints...)
}

// ComplaintsForUser returns the member-scoped list.
func (c *Container) ComplaintsForUser(userID string) []models.Complaint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return view.FilterForMember(c.complaints, userID)
}

// ComplaintsForCommunity returns the admin-scoped list.
func (c *Container) ComplaintsForCommunity(communityID string) []models.Complaint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return view.FilterForAdmin(c.complaints, communityID)
}

// CreateCommunity forms a community owned by the current user and, in the
// same critical section, points the current user's CommunityID at it. Both
// documents are persisted before the lock is released, so no reader ever
// observes the community without the updated user or vice versa.
func (c *Container) CreateCommunity(name string) (models.Community, error) {
	if name == "" {
		return models.Community{}, ErrNameRequired
	}

	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return models.Community{}, ErrNoUser
	}

	community := models.Community{
		ID:        models.NewCommunityID(),
		Name:      name,
		AdminID:   c.user.ID,
		MemberIDs: []string{c.user.ID},
	}
	c.communities = append(c.communities, community)
	c.user.CommunityID = community.ID

	c.persist(storage.KeyCommunities, c.communities)
	c.persist(storage.KeyUser, c.user)
	user := *c.user
	c.mu.Unlock()

	c.publish(ChangeEvent{Kind: EventCommunityCreated, Community: &community, User: &user})
	return community, nil
}

// AddMember appends one synthetic member id to the matching community and
// records the invited email alongside it. The id never resolves to a real
// User. Returns ok=false (no-op) when the community does not exist.
func (c *Container) AddMember(communityID, email string) (models.Invite, bool) {
	c.mu.Lock()
	var invite models.Invite
	var community *models.Community
	for i := range c.communities {
		if c.communities[i].ID == communityID {
			invite = models.Invite{
				MemberID:    models.NewInviteMemberID(),
				CommunityID: communityID,
				Email:       email,
				InvitedAt:   time.Now().UnixMilli(),
			}
			c.communities[i].MemberIDs = append(c.communities[i].MemberIDs, invite.MemberID)
			c.communities[i].Invites = append(c.communities[i].Invites, invite)
			cp := c.communities[i]
			community = &cp
			break
		}
	}
	if community != nil {
		c.persist(storage.KeyCommunities, c.communities)
	}
	c.mu.Unlock()

	if community == nil {
		return models.Invite{}, false
	}
	c.publish(ChangeEvent{Kind: EventMemberInvited, Community: community, Invite: &invite})
	return invite, true
}

// Communities returns a copy of the community list.
func (c *Container) Communities() []models.Community {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Community(nil), c.communities...)
}

// CommunityByID returns a copy of the matching community.
func (c *Container) CommunityByID(id string) (models.Community, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, community := range c.communities {
		if community.ID == id {
			return community, true
		}
	}
	return models.Community{}, false
}

// Subscribe returns a channel receiving every change event published after
// the call. Slow subscribers lose events instead of blocking mutations.
func (c *Container) Subscribe() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, eventBuffer)
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Container) publish(ev ChangeEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			log.Printf("session: dropping %s event for slow subscriber", ev.Kind)
		}
	}
}

// persist writes one document, logging instead of propagating failures:
// in-memory state stays authoritative and the render path never sees a
// storage error. Callers hold the write lock.
func (c *Container) persist(key string, value any) {
	if err := c.store.Save(key, value); err != nil {
		log.Printf("session: persist %q: %v", key, err)
	}
}
