package domain

import "errors"

var (
	ErrDeviceNotFound           = errors.New("device configuration not found")
	ErrSerialNotFound           = errors.New("serial number not found")
	ErrAuthorizationUnavailable = errors.New("authorization unavailable")
	ErrMissingCredentials       = errors.New("license authority credentials missing")
	ErrCredentialNotFound       = errors.New("credential not found")
)
