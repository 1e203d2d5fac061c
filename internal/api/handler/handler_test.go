package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenitsuos/backend/internal/api/handler"
	"zenitsuos/backend/internal/middleware"
	"zenitsuos/backend/internal/realtime"
	"zenitsuos/backend/internal/session"
	"zenitsuos/backend/internal/storage"
)

var testSecret = []byte("test-secret")

type env struct {
	router    *gin.Engine
	container *session.Container
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	container := session.New(store)
	container.Restore()

	h := handler.NewHandler(container, realtime.NewHub(), testSecret)

	r := gin.New()
	r.POST("/api/auth/login", h.RequireReady(), h.Login)
	r.GET("/ws/state", h.ServeStateFeed)

	authed := r.Group("/api", h.RequireReady(), middleware.AuthMiddleware(testSecret))
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/auth/me", h.Me)
		authed.GET("/state", h.GetState)
		authed.POST("/complaints", h.CreateComplaint)
		authed.GET("/complaints", h.ListComplaints)
		authed.PUT("/complaints/:id/status", h.UpdateComplaintStatus)
		authed.POST("/communities", h.CreateCommunity)
		authed.POST("/communities/:id/members", h.AddMember)
		authed.GET("/communities/current", h.CurrentCommunity)
	}

	return &env{router: r, container: container}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) login(t *testing.T, name, email, role string) (map[string]any, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"name": name, "email": email, "role": role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func TestLogin_InvalidRole(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "z@corps.com", "role": "MODERATOR",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_NameFallsBackToEmailLocalPart(t *testing.T) {
	e := newEnv(t)

	user, _ := e.login(t, "", "zenitsu@corps.com", "USER")
	assert.Equal(t, "zenitsu", user["name"])
}

func TestCreateComplaint_RequiresCommunity(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Zenitsu", "z@corps.com", "USER")

	w := e.do(t, http.MethodPost, "/api/complaints", token, gin.H{
		"title": "Broken lamp", "description": "The street lamp is out",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "part of a community")
}

func TestCreateCommunity_MemberForbidden(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Zenitsu", "z@corps.com", "USER")

	w := e.do(t, http.MethodPost, "/api/communities", token, gin.H{"name": "Ward 7"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminFlow_CreateTriageAndState(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	// Form a community; the admin is assigned to it in the same step.
	w := e.do(t, http.MethodPost, "/api/communities", token, gin.H{"name": "Ward 7"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var community struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &community))

	// Membership now allows filing complaints.
	w = e.do(t, http.MethodPost, "/api/complaints", token, gin.H{
		"title":       "Broken lamp",
		"description": "The street lamp on 5th is out",
		"location":    gin.H{"lat": 35.6895, "lng": 139.6917},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var complaint struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Location struct {
			Address string `json:"address"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &complaint))
	assert.Equal(t, "PENDING", complaint.Status)
	assert.Equal(t, "Lat: 35.6895, Lng: 139.6917", complaint.Location.Address)

	// Triage it.
	w = e.do(t, http.MethodPut, "/api/complaints/"+complaint.ID+"/status", token, gin.H{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// State reflects the transition and the community.
	w = e.do(t, http.MethodGet, "/api/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		View       string           `json:"view"`
		Complaints []map[string]any `json:"complaints"`
		Counts     map[string]int   `json:"counts"`
		Community  map[string]any   `json:"community"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "admin", state.View)
	require.Len(t, state.Complaints, 1)
	assert.Equal(t, "IN_PROGRESS", state.Complaints[0]["status"])
	assert.Equal(t, 1, state.Counts["IN_PROGRESS"])
	assert.Equal(t, 0, state.Counts["PENDING"])
	assert.Equal(t, community.ID, state.Community["id"])
}

func TestUpdateComplaintStatus_UnknownIDIsNoOp(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	w := e.do(t, http.MethodPost, "/api/communities", token, gin.H{"name": "Ward 7"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPut, "/api/complaints/C-missing/status", token, gin.H{
		"status": "RESOLVED",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateComplaintStatus_InvalidStatus(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	w := e.do(t, http.MethodPut, "/api/complaints/C-1/status", token, gin.H{
		"status": "DONE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddMember_RecordsInvite(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	w := e.do(t, http.MethodPost, "/api/communities", token, gin.H{"name": "Ward 7"})
	require.Equal(t, http.StatusCreated, w.Code)
	var community struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &community))

	w = e.do(t, http.MethodPost, "/api/communities/"+community.ID+"/members", token, gin.H{
		"email": "tanjiro@corps.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Invite struct {
			MemberID string `json:"memberId"`
			Email    string `json:"email"`
		} `json:"invite"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tanjiro@corps.com", resp.Invite.Email)
	assert.Contains(t, resp.Invite.MemberID, "invite-")
}

func TestAddMember_UnknownCommunity(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	w := e.do(t, http.MethodPost, "/api/communities/missing/members", token, gin.H{
		"email": "tanjiro@corps.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMe_StaleTokenIsUnauthenticated(t *testing.T) {
	e := newEnv(t)
	_, staleToken := e.login(t, "Zenitsu", "z@corps.com", "USER")

	// A second login replaces the session; the first token no longer
	// matches the current user.
	e.login(t, "Giyu", "giyu@corps.com", "ADMIN")

	w := e.do(t, http.MethodGet, "/api/auth/me", staleToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_ThenMeUnauthenticated(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Zenitsu", "z@corps.com", "USER")

	w := e.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStateFeed_MissingToken(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/ws/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStateFeed_NonWebsocketRequestWritesOneResponse(t *testing.T) {
	e := newEnv(t)
	_, token := e.login(t, "Zenitsu", "z@corps.com", "USER")

	// A plain GET fails the upgrade handshake; the upgrader writes the
	// error response itself and the handler must not write a second one.
	w := e.do(t, http.MethodGet, "/ws/state?token="+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "failed to upgrade")
}

func TestState_LoginViewWithoutSession(t *testing.T) {
	e := newEnv(t)
	_, staleToken := e.login(t, "Zenitsu", "z@corps.com", "USER")
	e.do(t, http.MethodPost, "/api/auth/logout", staleToken, nil)

	w := e.do(t, http.MethodGet, "/api/state", staleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		View string `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "login", state.View)
}
