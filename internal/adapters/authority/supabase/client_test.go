package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return Client{BaseURL: server.URL, APIKey: "anon-key", HTTPClient: server.Client(), RequestTimeout: time.Second}
}

func TestFetchSerialSendsPostgRESTQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/serial_numbers", r.URL.Path)
		assert.Equal(t, "eq.SN-1", r.URL.Query().Get("serial_number"))
		assert.Equal(t, selectColumns, r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `[{"serial_number":"SN-1","active":true,"bound_device_id":"dev-1","owner_email":"owner@example.com"}]`)
	})

	entry, err := client.FetchSerial(context.Background(), "SN-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SerialEntry{SerialNumber: "SN-1", Active: true, BoundDeviceID: "dev-1", OwnerEmail: "owner@example.com"}, entry)
}

func TestFetchSerialAcceptsTextBooleansAndNulls(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"serial_number":"SN-1","active":"false","bound_device_id":null,"owner_email":"owner@example.com"}]`)
	})

	entry, err := client.FetchSerial(context.Background(), "SN-1")
	require.NoError(t, err)
	assert.False(t, entry.Active)
	assert.Empty(t, entry.BoundDeviceID)
}

func TestFetchSerialNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.FetchSerial(context.Background(), "SN-404")
	assert.ErrorIs(t, err, domain.ErrSerialNotFound)
}

func TestFetchSerialMalformedResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"serial_number":"SN-1","active":"maybe"}]`)
	})

	_, err := client.FetchSerial(context.Background(), "SN-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSerialNotFound)
	assert.ErrorContains(t, err, "decode fetch serial response")
}

func TestFetchSerialHTTPErrorIncludesRestMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"PGRST301","message":"JWT expired"}`)
	})

	_, err := client.FetchSerial(context.Background(), "SN-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 401")
	assert.ErrorContains(t, err, "JWT expired")
}

func TestFetchSerialMissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := Client{BaseURL: "https://example.supabase.co"}.FetchSerial(context.Background(), "SN-1")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	_, err = Client{APIKey: "anon-key"}.FetchSerial(context.Background(), "SN-1")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestClaimSerialPatchesOnlyInactiveRow(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.SN-1", r.URL.Query().Get("serial_number"))
		assert.Equal(t, "(active.eq.false,active.is.null)", r.URL.Query().Get("or"))
		assert.Empty(t, r.URL.Query().Get("active"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body claimBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, claimBody{Active: true, BoundDeviceID: "dev-1"}, body)

		_, _ = io.WriteString(w, `[{"serial_number":"SN-1","active":true,"bound_device_id":"dev-1","owner_email":"owner@example.com"}]`)
	})

	won, err := client.ClaimSerial(context.Background(), "SN-1", "dev-1")
	require.NoError(t, err)
	assert.True(t, won)
}

func TestClaimSerialLostWhenNoRowUpdated(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	won, err := client.ClaimSerial(context.Background(), "SN-1", "dev-1")
	require.NoError(t, err)
	assert.False(t, won)
}

func TestClientUsesCustomTableAndBasePath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proxy/rest/v1/licenses", r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL + "/proxy/", APIKey: "anon-key", Table: "licenses", HTTPClient: server.Client()}
	_, err := client.FetchSerial(context.Background(), "SN-1")
	assert.ErrorIs(t, err, domain.ErrSerialNotFound)
}

func TestBuildAPIURLRejectsInvalidBase(t *testing.T) {
	t.Parallel()

	_, err := buildAPIURL("ftp://example.com", restPath)
	assert.Error(t, err)

	_, err = buildAPIURL("https://", restPath)
	assert.Error(t, err)
}

// nullableSerialTable mimics PostgREST filter semantics for one row whose active column starts
// out NULL: eq.false never matches NULL, is.null does.
type nullableSerialTable struct {
	mu     sync.Mutex
	active *bool
	bound  string
}

func (tbl *nullableSerialTable) row() string {
	active := "null"
	if tbl.active != nil {
		active = strconv.FormatBool(*tbl.active)
	}
	bound := "null"
	if tbl.bound != "" {
		bound = strconv.Quote(tbl.bound)
	}
	return `[{"serial_number":"SN-1","active":` + active + `,"bound_device_id":` + bound + `,"owner_email":"owner@example.com"}]`
}

func (tbl *nullableSerialTable) matchesInactive(q url.Values) bool {
	isFalse := tbl.active != nil && !*tbl.active
	switch {
	case q.Get("active") == "eq.false":
		return isFalse
	case q.Get("or") == "(active.eq.false,active.is.null)":
		return isFalse || tbl.active == nil
	default:
		return true
	}
}

func (tbl *nullableSerialTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		_, _ = io.WriteString(w, tbl.row())
	case http.MethodPatch:
		if !tbl.matchesInactive(r.URL.Query()) {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		var body claimBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		tbl.active = &body.Active
		tbl.bound = body.BoundDeviceID
		_, _ = io.WriteString(w, tbl.row())
	}
}

func TestClaimSerialActivatesRowWithNullActive(t *testing.T) {
	t.Parallel()

	table := &nullableSerialTable{}
	server := httptest.NewServer(table)
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL, APIKey: "anon-key", HTTPClient: server.Client(), RequestTimeout: time.Second}
	gate := application.NewAuthorizationGate(client, application.AuthorizationOptions{ClaimOnActivate: true})

	decision, err := gate.Authorize(context.Background(), "SN-1", "owner@example.com", "dev-1")
	require.NoError(t, err)
	assert.True(t, decision.Authorized)
	assert.True(t, decision.Claimed)

	entry, err := client.FetchSerial(context.Background(), "SN-1")
	require.NoError(t, err)
	assert.True(t, entry.Active)
	assert.Equal(t, domain.DeviceID("dev-1"), entry.BoundDeviceID)
}
