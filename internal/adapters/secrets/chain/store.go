package chain

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	filestore "github.com/bnema/cps-kiosk/internal/adapters/secrets/file"
	passstore "github.com/bnema/cps-kiosk/internal/adapters/secrets/pass"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
)

// ErrOutsideNamespace rejects keys that do not belong to the kiosk, so a bad key_ref cannot
// read or remove unrelated password store entries.
var ErrOutsideNamespace = errors.New("secret key outside kiosk namespace")

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
	errEmptyNamespace   = errors.New("secret namespace is empty")
	errEmptySecret      = errors.New("secret value is empty")
)

// Store keeps authority credentials in pass and falls back to private files when pass is
// missing or fails. A key lives in at most one backend after a successful Put.
type Store struct {
	namespace string
	primary   ports.SecretStore
	fallback  ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(namespace string, primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	namespace = strings.Trim(strings.TrimSpace(namespace), "/")
	if namespace == "" {
		return nil, errEmptyNamespace
	}
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{namespace: namespace + "/", primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(namespace string, fileRoot string) (*Store, error) {
	return NewStore(namespace, passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	key, err := s.checkKey(key)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return errEmptySecret
	}

	err = s.primary.Put(ctx, key, value)
	if err == nil {
		// A copy left in the fallback from an earlier pass outage would resurface if pass
		// went away again.
		if staleErr := s.fallback.Delete(ctx, key); staleErr != nil && !ignorableDelete(staleErr) {
			return fmt.Errorf("stored %q in primary backend but could not clear fallback copy: %w", key, staleErr)
		}
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	key, err := s.checkKey(key)
	if err != nil {
		return "", err
	}

	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes key from both backends. A key that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := s.checkKey(key)
	if err != nil {
		return err
	}

	var errs []error
	for _, backend := range []struct {
		name  string
		store ports.SecretStore
	}{
		{name: "primary", store: s.primary},
		{name: "fallback", store: s.fallback},
	} {
		err := backend.store.Delete(ctx, key)
		if err == nil || ignorableDelete(err) {
			continue
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("%s backend delete failed: %w", backend.name, err))
	}

	return errors.Join(errs...)
}

func (s *Store) checkKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, s.namespace) || len(key) == len(s.namespace) || path.Clean(key) != key {
		return "", fmt.Errorf("%q is not under %q: %w", key, s.namespace, ErrOutsideNamespace)
	}
	return key, nil
}

func ignorableDelete(err error) bool {
	return errors.Is(err, domain.ErrCredentialNotFound) || errors.Is(err, passstore.ErrUnavailable)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
