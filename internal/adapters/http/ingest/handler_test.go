package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngest struct {
	registered []application.RegisterCommand
	credits    []uint8
}

func (f *fakeIngest) Register(_ context.Context, cmd application.RegisterCommand) domain.Registration {
	f.registered = append(f.registered, cmd)
	if cmd.PairID != application.DefaultPairID {
		return domain.Registration{Text: application.TextInvalidPairID}
	}
	return domain.Registration{Status: true, ServerHWID: "server-hwid-123", ServerAddress: "127.0.0.1:3000", Text: application.TextRegistered}
}

func (f *fakeIngest) AddCredit(_ context.Context, credits uint8) application.AddCreditResult {
	f.credits = append(f.credits, credits)
	return application.AddCreditResult{Status: true, Text: application.TextTimeAdded}
}

type fakeSession domain.SessionState

func (f fakeSession) State() domain.SessionState { return domain.SessionState(f) }

type fakeLicense struct {
	record    domain.LicenseRecord
	statusErr error
	result    application.ActivationResult
	err       error
}

func (f *fakeLicense) Status(context.Context) (domain.LicenseRecord, error) {
	return f.record, f.statusErr
}

func (f *fakeLicense) Activate(context.Context, string, string) (application.ActivationResult, error) {
	return f.result, f.err
}

func (f *fakeLicense) Licensed(context.Context) bool { return f.record.Authorized }

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTestRouter(license *fakeLicense) (*gin.Engine, *fakeIngest) {
	gin.SetMode(gin.TestMode)
	ingest := &fakeIngest{}
	h := &Handler{
		Ingest:  ingest,
		Session: fakeSession{RemainingSeconds: 42, Running: true},
		License: license,
		Log:     quietLogger(),
	}
	return NewRouter(h, RouterOptions{Logger: quietLogger()}), ingest
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterRoute(t *testing.T) {
	r, ingest := setupTestRouter(&fakeLicense{})

	w := doJSON(r, http.MethodPost, "/api/v1/register", `{"pair_id":"pair-id-123","address":"10.0.0.9:4000","hwid":"acceptor-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true,"server_hwid":"server-hwid-123","server_address":"127.0.0.1:3000","text":"Registration successful"}`, w.Body.String())
	assert.Equal(t, []application.RegisterCommand{{PairID: "pair-id-123", Address: "10.0.0.9:4000", HWID: "acceptor-1"}}, ingest.registered)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRegisterWrongPairIDIsInBand(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{})

	w := doJSON(r, http.MethodPost, "/api/v1/register", `{"pair_id":"nope","address":"","hwid":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":false,"server_hwid":"","server_address":"","text":"Invalid pair_id"}`, w.Body.String())
}

func TestRegisterMalformedBody(t *testing.T) {
	r, ingest := setupTestRouter(&fakeLicense{})

	w := doJSON(r, http.MethodPost, "/api/v1/register", `{"pair_id":`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.Registration](t, w)
	assert.False(t, resp.Status)
	assert.Empty(t, resp.ServerHWID)
	assert.Empty(t, resp.ServerAddress)
	assert.Empty(t, ingest.registered)
}

func TestAddTimeRoute(t *testing.T) {
	r, ingest := setupTestRouter(&fakeLicense{})

	w := doJSON(r, http.MethodPost, "/api/v1/addtime", `{"credits":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true,"text":"Time added successfully"}`, w.Body.String())
	assert.Equal(t, []uint8{5}, ingest.credits)
}

func TestAddTimeRejectsOutOfRangeAndMissingCredits(t *testing.T) {
	bodies := []string{`{"credits":256}`, `{"credits":-1}`, `{"credits":1.5}`, `{"credits":"5"}`, `{}`, `not json`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			r, ingest := setupTestRouter(&fakeLicense{})

			w := doJSON(r, http.MethodPost, "/api/v1/addtime", body)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[application.AddCreditResult](t, w)
			assert.False(t, resp.Status)
			assert.Empty(t, ingest.credits)
		})
	}
}

func TestAddTimeAcceptsZeroAndMaxCredits(t *testing.T) {
	r, ingest := setupTestRouter(&fakeLicense{})

	doJSON(r, http.MethodPost, "/api/v1/addtime", `{"credits":0}`)
	doJSON(r, http.MethodPost, "/api/v1/addtime", `{"credits":255}`)
	assert.Equal(t, []uint8{0, 255}, ingest.credits)
}

func TestStatusRoute(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{record: domain.LicenseRecord{Authorized: true}})

	w := doJSON(r, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"remaining_seconds":42,"running":true,"licensed":true}`, w.Body.String())
}

func TestGetLicenseRoute(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{record: domain.LicenseRecord{Authorized: true, SerialNumber: "SN-1", EmailAddress: "owner@example.com"}})

	w := doJSON(r, http.MethodGet, "/api/v1/license", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authorized":true,"serialNumber":"SN-1","emailAddress":"owner@example.com"}`, w.Body.String())
}

func TestGetLicenseMissingDeviceIsEmptyRecord(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{statusErr: domain.ErrDeviceNotFound})

	w := doJSON(r, http.MethodGet, "/api/v1/license", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[domain.LicenseRecord](t, w).Authorized)
}

func TestActivateLicenseRoute(t *testing.T) {
	record := domain.LicenseRecord{Authorized: true, SerialNumber: "SN-1", EmailAddress: "owner@example.com", BoundDeviceID: "dev-1"}
	r, _ := setupTestRouter(&fakeLicense{result: application.ActivationResult{Decision: domain.Allow(true), Record: record}})

	w := doJSON(r, http.MethodPost, "/api/v1/license/activate", `{"serial_number":"SN-1","email_address":"owner@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[activateResponse](t, w)
	assert.True(t, resp.Authorized)
	assert.True(t, resp.Claimed)
	require.NotNil(t, resp.License)
	assert.Equal(t, record, *resp.License)
}

func TestActivateLicenseDenied(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{result: application.ActivationResult{Decision: domain.Deny(domain.DenyInUse)}})

	w := doJSON(r, http.MethodPost, "/api/v1/license/activate", `{"serial_number":"SN-1","email_address":"owner@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[activateResponse](t, w)
	assert.False(t, resp.Authorized)
	assert.Equal(t, domain.DenyInUse, resp.Reason)
	assert.Equal(t, domain.DenyInUse.Message(), resp.Message)
	assert.Nil(t, resp.License)
}

func TestActivateLicenseUnavailableIsNotDenied(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{err: errors.Join(domain.ErrAuthorizationUnavailable, errors.New("dial tcp"))})

	w := doJSON(r, http.MethodPost, "/api/v1/license/activate", `{"serial_number":"SN-1","email_address":"owner@example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestActivateLicenseInvalidInput(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{err: application.ErrInvalidActivationInput})

	w := doJSON(r, http.MethodPost, "/api/v1/license/activate", `{"serial_number":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	r, _ := setupTestRouter(&fakeLicense{})

	w := doJSON(r, http.MethodGet, "/register", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerShutsDownOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, _ := setupTestRouter(&fakeLicense{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), r, time.Second, quietLogger())
	shutdownHookCalled := make(chan struct{})
	srv.OnShutdown(func() { close(shutdownHookCalled) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/v1/addtime", "application/json", strings.NewReader(`{"credits":1}`))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	<-shutdownHookCalled
}

func TestServeReportsBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	srv := NewServer(ln.Addr().String(), http.NotFoundHandler(), time.Second, quietLogger())
	err = srv.Serve(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "listen on")
}
