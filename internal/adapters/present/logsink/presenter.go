package logsink

import (
	"context"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
)

// Presenter writes every session event to the process log. Timer updates go to debug so a
// running session does not flood the info stream.
type Presenter struct {
	log logrus.FieldLogger
}

var _ ports.Presenter = (*Presenter)(nil)

func New(log logrus.FieldLogger) *Presenter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Presenter{log: log.WithField("component", "events")}
}

func (p *Presenter) Present(_ context.Context, event domain.Event) error {
	entry := p.log.WithField("event", event.Kind)

	switch event.Kind {
	case domain.EventTimerUpdate:
		entry.WithField("remaining_seconds", event.RemainingSeconds).Debug("session time updated")
	case domain.EventCreditAdded:
		entry.WithField("credits", event.Credits).Info("credit added")
	case domain.EventRegisterRequest:
		if event.Registration != nil {
			entry = entry.WithFields(logrus.Fields{"status": event.Registration.Status, "text": event.Registration.Text})
		}
		entry.Info("acceptor registration")
	case domain.EventLicenseUpdated:
		if event.License != nil {
			entry = entry.WithFields(logrus.Fields{"authorized": event.License.Authorized, "serial_number": event.License.SerialNumber})
		}
		entry.Info("license updated")
	default:
		entry.Info("session event")
	}
	return nil
}
