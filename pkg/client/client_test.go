package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/models"
)

func envelopeJSON(t *testing.T, data interface{}, pagination *models.Pagination) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
	require.NoError(t, err)
	return body
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(envelopeJSON(t, []models.PayrollRow{}, nil)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("abc123"))
	_, err := c.ListPayroll(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClientLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write(envelopeJSON(t, models.LoginResponse{AccessToken: "fresh-token"}, nil)) //nolint:errcheck
		default:
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			w.Write(envelopeJSON(t, []models.LeaveRequest{}, nil)) //nolint:errcheck
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", res.AccessToken)

	_, err = c.ListLeaves(context.Background(), ListOptions{})
	require.NoError(t, err)
}

func TestClientDecodesFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"leave request has already been decided","code":"TERMINAL_STATE"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.DecideLeave(context.Background(), "leave-1", LeaveDecisionRequest{Status: "approved"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "TERMINAL_STATE", apiErr.Code)
	assert.Contains(t, apiErr.Message, "already been decided")
}

func TestClientListForwardsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write(envelopeJSON(t, []models.Incident{{ID: "inc-1"}}, &models.Pagination{Page: 2, PageSize: 5, TotalCount: 11})) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListIncidents(context.Background(), ListOptions{Search: "fight", Status: "Pending", Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Contains(t, gotQuery, "search=fight")
	assert.Contains(t, gotQuery, "status=Pending")
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "page_size=5")
}

func TestClientDropsStaleListResponse(t *testing.T) {
	release := make(chan struct{})
	var first sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slow := false
		first.Do(func() { slow = true })
		if slow {
			<-release
			w.Write(envelopeJSON(t, []models.LeaveRequest{{ID: "old"}}, nil)) //nolint:errcheck
			return
		}
		w.Write(envelopeJSON(t, []models.LeaveRequest{{ID: "new"}}, nil)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)

	slowDone := make(chan error, 1)
	go func() {
		_, err := c.ListLeaves(context.Background(), ListOptions{})
		slowDone <- err
	}()

	// Give the slow fetch time to take its guard ticket before the fast
	// one starts.
	time.Sleep(50 * time.Millisecond)

	page, err := c.ListLeaves(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "new", page.Rows[0].ID)

	close(release)
	require.ErrorIs(t, <-slowDone, ErrStaleResponse)
}

func TestClientContextCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.ListPayroll(ctx, ListOptions{})
		done <- err
	}()

	<-started
	cancel()

	err := <-done
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "context canceled")
}

func TestSequenceGuard(t *testing.T) {
	g := newSequenceGuard()

	a := g.begin("leaves")
	b := g.begin("leaves")
	other := g.begin("incidents")

	assert.True(t, g.commit("leaves", b))
	assert.False(t, g.commit("leaves", a), "older ticket must not commit after a newer one")
	assert.True(t, g.commit("incidents", other), "resources are guarded independently")
}
