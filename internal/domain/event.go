package domain

import "time"

type EventKind string

const (
	EventRegisterRequest EventKind = "register_request"
	EventCreditAdded     EventKind = "addtime_handler"
	EventTimerUpdate     EventKind = "timer_update"
	EventTimerDone       EventKind = "timer_done"
	EventShowSmall       EventKind = "show_small"
	EventShowMain        EventKind = "show_main"
	EventLicenseUpdated  EventKind = "license_updated"
)

type Registration struct {
	Status        bool   `json:"status"`
	ServerHWID    string `json:"server_hwid"`
	ServerAddress string `json:"server_address"`
	Text          string `json:"text"`
}

// Event is the single payload shape delivered to the presentation layer.
// Only the fields relevant to Kind are populated.
type Event struct {
	Kind             EventKind      `json:"kind"`
	Registration     *Registration  `json:"registration,omitempty"`
	Credits          uint64         `json:"credits,omitempty"`
	RemainingSeconds uint64         `json:"remaining_seconds"`
	License          *LicenseRecord `json:"license,omitempty"`
	At               time.Time      `json:"at"`
}

func RegisteredEvent(r Registration) Event {
	return Event{Kind: EventRegisterRequest, Registration: &r, At: time.Now()}
}

func CreditAddedEvent(credits uint64) Event {
	return Event{Kind: EventCreditAdded, Credits: credits, At: time.Now()}
}

func RemainingUpdatedEvent(seconds uint64) Event {
	return Event{Kind: EventTimerUpdate, RemainingSeconds: seconds, At: time.Now()}
}

func SessionEndedEvent() Event {
	return Event{Kind: EventTimerDone, At: time.Now()}
}

func ShowSmallEvent() Event {
	return Event{Kind: EventShowSmall, At: time.Now()}
}

func ShowMainEvent() Event {
	return Event{Kind: EventShowMain, At: time.Now()}
}

func LicenseUpdatedEvent(record LicenseRecord) Event {
	return Event{Kind: EventLicenseUpdated, License: &record, At: time.Now()}
}
