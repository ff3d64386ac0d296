package ingest

import (
	"context"
	"errors"
	"net/http"

	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const textMalformed = "Invalid request body"

type IngestService interface {
	Register(ctx context.Context, cmd application.RegisterCommand) domain.Registration
	AddCredit(ctx context.Context, credits uint8) application.AddCreditResult
}

type SessionState interface {
	State() domain.SessionState
}

type LicenseService interface {
	Status(ctx context.Context) (domain.LicenseRecord, error)
	Activate(ctx context.Context, serial, email string) (application.ActivationResult, error)
	Licensed(ctx context.Context) bool
}

type Handler struct {
	Ingest  IngestService
	Session SessionState
	License LicenseService
	Log     logrus.FieldLogger
}

type registerRequest struct {
	PairID  string `json:"pair_id"`
	Address string `json:"address"`
	HWID    string `json:"hwid"`
}

type addTimeRequest struct {
	Credits *uint8 `json:"credits"`
}

type activateRequest struct {
	SerialNumber string `json:"serial_number"`
	EmailAddress string `json:"email_address"`
}

type statusResponse struct {
	RemainingSeconds uint64 `json:"remaining_seconds"`
	Running          bool   `json:"running"`
	Licensed         bool   `json:"licensed"`
}

type activateResponse struct {
	Authorized   bool                  `json:"authorized"`
	Claimed      bool                  `json:"claimed"`
	Reason       domain.DenyReason     `json:"reason,omitempty"`
	Message      string                `json:"message"`
	License      *domain.LicenseRecord `json:"license,omitempty"`
	PersistError string                `json:"persist_error,omitempty"`
}

// Register answers 200 for every request; failures are reported in the payload.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.malformed(c, err)
		c.JSON(http.StatusOK, domain.Registration{Status: false, Text: textMalformed})
		return
	}

	c.JSON(http.StatusOK, h.Ingest.Register(c.Request.Context(), application.RegisterCommand{
		PairID:  req.PairID,
		Address: req.Address,
		HWID:    req.HWID,
	}))
}

// AddTime answers 200 for every request; a malformed body yields status=false.
func (h *Handler) AddTime(c *gin.Context) {
	var req addTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.malformed(c, err)
		c.JSON(http.StatusOK, application.AddCreditResult{Status: false, Text: textMalformed})
		return
	}
	if req.Credits == nil {
		h.malformed(c, errors.New("credits is required"))
		c.JSON(http.StatusOK, application.AddCreditResult{Status: false, Text: textMalformed})
		return
	}

	c.JSON(http.StatusOK, h.Ingest.AddCredit(c.Request.Context(), *req.Credits))
}

func (h *Handler) Status(c *gin.Context) {
	state := h.Session.State()
	c.JSON(http.StatusOK, statusResponse{
		RemainingSeconds: state.RemainingSeconds,
		Running:          state.Running,
		Licensed:         h.License.Licensed(c.Request.Context()),
	})
}

func (h *Handler) GetLicense(c *gin.Context) {
	record, err := h.License.Status(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			c.JSON(http.StatusOK, domain.LicenseRecord{})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_read_license"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) ActivateLicense(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.License.Activate(c.Request.Context(), req.SerialNumber, req.EmailAddress)
	switch {
	case errors.Is(err, application.ErrInvalidActivationInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "serial_number_and_email_required"})
		return
	case errors.Is(err, domain.ErrAuthorizationUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authorization_unavailable"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "activation_failed"})
		return
	}

	resp := activateResponse{
		Authorized: result.Decision.Authorized,
		Claimed:    result.Decision.Claimed,
		Reason:     result.Decision.Reason,
		Message:    result.Decision.Reason.Message(),
	}
	if result.Decision.Authorized {
		record := result.Record
		resp.License = &record
	}
	if result.PersistErr != nil {
		resp.PersistError = result.PersistErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) malformed(c *gin.Context, err error) {
	h.logger().WithError(err).WithFields(logrus.Fields{
		"path":       c.FullPath(),
		requestIDKey: c.GetString(requestIDKey),
	}).Warn("malformed request body")
}

func (h *Handler) logger() logrus.FieldLogger {
	if h.Log != nil {
		return h.Log
	}
	return logrus.StandardLogger()
}
