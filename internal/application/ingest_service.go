package application

import (
	"context"
	"strings"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPairID        = "pair-id-123"
	DefaultServerHWID    = "server-hwid-123"
	DefaultServerAddress = "127.0.0.1:3000"

	TextRegistered    = "Registration successful"
	TextInvalidPairID = "Invalid pair_id"
	TextTimeAdded     = "Time added successfully"
	TextUnlicensed    = "License is not authorized"
)

type RegisterCommand struct {
	PairID  string
	Address string
	HWID    string
}

type AddCreditResult struct {
	Status bool   `json:"status"`
	Text   string `json:"text"`
}

type IngestOptions struct {
	PairID         string
	ServerHWID     string
	ServerAddress  string
	RequireLicense bool
	Clock          ports.Clock
	Logger         logrus.FieldLogger
}

// Licensing is the narrow view the ingestion path needs of the license state.
type Licensing interface {
	Licensed(ctx context.Context) bool
}

// IngestService implements the acceptor-facing register and add-credit operations.
type IngestService struct {
	credits  *CreditChannel
	notifier ports.Notifier
	repo     ports.DeviceRepository
	license  Licensing
	device   domain.DeviceID
	opts     IngestOptions
	log      logrus.FieldLogger
}

func NewIngestService(credits *CreditChannel, notifier ports.Notifier, repo ports.DeviceRepository, license Licensing, device domain.DeviceID, opts IngestOptions) *IngestService {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if opts.PairID == "" {
		opts.PairID = DefaultPairID
	}
	if opts.ServerHWID == "" {
		opts.ServerHWID = DefaultServerHWID
	}
	if opts.ServerAddress == "" {
		opts.ServerAddress = DefaultServerAddress
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &IngestService{
		credits:  credits,
		notifier: notifier,
		repo:     repo,
		license:  license,
		device:   device,
		opts:     opts,
		log:      opts.Logger.WithField("component", "ingest"),
	}
}

// Register never fails at the transport level; a wrong pair id is reported in-band.
func (s *IngestService) Register(ctx context.Context, cmd RegisterCommand) domain.Registration {
	if cmd.PairID != s.opts.PairID {
		s.log.WithField("address", cmd.Address).Warn("register rejected: invalid pair_id")
		return domain.Registration{Status: false, Text: TextInvalidPairID}
	}

	resp := domain.Registration{
		Status:        true,
		ServerHWID:    s.opts.ServerHWID,
		ServerAddress: s.opts.ServerAddress,
		Text:          TextRegistered,
	}
	s.notifier.Notify(domain.RegisteredEvent(resp))
	s.rememberClient(ctx, cmd)
	s.log.WithFields(logrus.Fields{"address": cmd.Address, "hwid": cmd.HWID}).Info("acceptor registered")
	return resp
}

// AddCredit reports success for every well-formed request once the message was offered; a
// dropped message is logged by the credit channel and never surfaced to the acceptor.
func (s *IngestService) AddCredit(ctx context.Context, credits uint8) AddCreditResult {
	if s.opts.RequireLicense && (s.license == nil || !s.license.Licensed(ctx)) {
		s.log.WithField("credits", credits).Warn("credit refused: license is not authorized")
		return AddCreditResult{Status: false, Text: TextUnlicensed}
	}

	msg := domain.CreditMessage{Amount: uint64(credits), Origin: uuid.NewString()}
	if s.credits.Offer(ctx, msg) {
		s.log.WithFields(logrus.Fields{"credits": credits, "origin": msg.Origin}).Debug("credit enqueued")
	}
	return AddCreditResult{Status: true, Text: TextTimeAdded}
}

func (s *IngestService) rememberClient(ctx context.Context, cmd RegisterCommand) {
	hwid := strings.TrimSpace(cmd.HWID)
	if s.repo == nil || hwid == "" || s.device == "" {
		return
	}

	client := domain.PairedClient{
		Address:  strings.TrimSpace(cmd.Address),
		HWID:     hwid,
		PairedAt: s.opts.Clock.Now().UTC().Truncate(time.Second),
	}
	if err := s.repo.SaveClient(ctx, s.device, client); err != nil {
		s.log.WithError(err).WithField("hwid", hwid).Warn("could not record paired client")
	}
}
