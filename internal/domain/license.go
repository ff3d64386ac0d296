package domain

import "strings"

// LicenseRecord is the local, per-device view of the license. It is written only after a
// successful authorization.
type LicenseRecord struct {
	Authorized    bool     `json:"authorized"`
	SerialNumber  string   `json:"serialNumber"`
	EmailAddress  string   `json:"emailAddress"`
	BoundDeviceID DeviceID `json:"boundDeviceId,omitempty"`
}

// SerialEntry is the remote authority's row for one serial number. Read-only to this program.
type SerialEntry struct {
	SerialNumber  string
	Active        bool
	BoundDeviceID DeviceID
	OwnerEmail    string
}

func (e SerialEntry) OwnedBy(email string) bool {
	owner := strings.TrimSpace(e.OwnerEmail)
	return owner != "" && strings.EqualFold(owner, strings.TrimSpace(email))
}

func (e SerialEntry) BoundTo(id DeviceID) bool {
	return e.BoundDeviceID != "" && e.BoundDeviceID == id
}

type DenyReason string

const (
	DenyNone          DenyReason = ""
	DenyNotFound      DenyReason = "serial_not_found"
	DenyEmailMismatch DenyReason = "email_mismatch"
	DenyInUse         DenyReason = "serial_in_use"
)

func (r DenyReason) Message() string {
	switch r {
	case DenyNotFound:
		return "Serial number not found"
	case DenyEmailMismatch:
		return "Email address does not match the serial number owner"
	case DenyInUse:
		return "Serial number is already activated on another device"
	default:
		return "Authorized"
	}
}

type Decision struct {
	Authorized bool
	Reason     DenyReason
	// Claimed is set when this call activated the serial for the first time.
	Claimed bool
}

func Allow(claimed bool) Decision {
	return Decision{Authorized: true, Claimed: claimed}
}

func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}
