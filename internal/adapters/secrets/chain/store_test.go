package chain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	filestore "github.com/bnema/cps-kiosk/internal/adapters/secrets/file"
	passstore "github.com/bnema/cps-kiosk/internal/adapters/secrets/pass"
	"github.com/bnema/cps-kiosk/internal/domain"
	portmocks "github.com/bnema/cps-kiosk/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const apiKeyRef = "cps/authority/api_key"

func newChain(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore("cps/authority", primary, fallback)
	require.NoError(t, err)
	return store, primary, fallback
}

func TestNewStoreRejectsMissingParts(t *testing.T) {
	t.Parallel()

	backend := portmocks.NewMockSecretStore(t)

	_, err := NewStore("  ", backend, backend)
	assert.ErrorIs(t, err, errEmptyNamespace)

	_, err = NewStore("cps/authority", nil, backend)
	assert.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStore("cps/authority", backend, nil)
	assert.ErrorIs(t, err, errNilFallbackStore)
}

func TestStoreRejectsKeysOutsideNamespace(t *testing.T) {
	t.Parallel()

	store, _, _ := newChain(t)
	for _, key := range []string{
		"",
		"cps/authority/",
		"email/personal",
		"cps/authority-other/key",
		"cps/authority/../../email/personal",
	} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, store.Put(context.Background(), key, "secret"), ErrOutsideNamespace)
			_, err := store.Get(context.Background(), key)
			assert.ErrorIs(t, err, ErrOutsideNamespace)
			assert.ErrorIs(t, store.Delete(context.Background(), key), ErrOutsideNamespace)
		})
	}
}

func TestStorePutRejectsEmptyValue(t *testing.T) {
	t.Parallel()

	store, _, _ := newChain(t)
	assert.ErrorIs(t, store.Put(context.Background(), apiKeyRef, "  "), errEmptySecret)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), apiKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("", passstore.ErrUnavailable).Once()
	fallback.EXPECT().Get(mock.Anything, apiKeyRef).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), apiKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, apiKeyRef).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), apiKeyRef)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), apiKeyRef)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreGetKeepsCredentialNotFoundWhenBothBackendsMiss(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("", domain.ErrCredentialNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, apiKeyRef).Return("", domain.ErrCredentialNotFound).Once()

	_, err := store.Get(context.Background(), apiKeyRef)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Put(mock.Anything, apiKeyRef, "secret").Return(errors.New("gpg: no public key")).Once()
	fallback.EXPECT().Put(mock.Anything, apiKeyRef, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), apiKeyRef, "secret"))
}

func TestStorePutInPrimaryClearsFallbackCopy(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Put(mock.Anything, apiKeyRef, "secret").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, apiKeyRef).Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), apiKeyRef, "secret"))
}

func TestStorePutReportsStaleFallbackCopy(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Put(mock.Anything, apiKeyRef, "secret").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, apiKeyRef).Return(errors.New("permission denied")).Once()

	err := store.Put(context.Background(), apiKeyRef, "secret")
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not clear fallback copy")
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, apiKeyRef).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, apiKeyRef).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), apiKeyRef))
}

func TestStoreDeleteIgnoresMissingEntriesAndMissingPass(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, apiKeyRef).Return(passstore.ErrUnavailable).Once()
	fallback.EXPECT().Delete(mock.Anything, apiKeyRef).Return(domain.ErrCredentialNotFound).Once()

	require.NoError(t, store.Delete(context.Background(), apiKeyRef))
}

func TestStoreDeleteReportsEachFailingBackend(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, apiKeyRef).Return(errors.New("gpg agent locked")).Once()
	fallback.EXPECT().Delete(mock.Anything, apiKeyRef).Return(errors.New("read-only file system")).Once()

	err := store.Delete(context.Background(), apiKeyRef)
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend delete failed: gpg agent locked")
	assert.ErrorContains(t, err, "fallback backend delete failed: read-only file system")
}

func TestStoreDeleteStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Delete(mock.Anything, apiKeyRef).Return(context.Canceled).Once()

	require.ErrorIs(t, store.Delete(context.Background(), apiKeyRef), context.Canceled)
}

func TestStoreDeleteRemovesFileFallbackCopy(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	primary.EXPECT().Put(mock.Anything, apiKeyRef, "secret").Return(passstore.ErrUnavailable).Once()
	primary.EXPECT().Delete(mock.Anything, apiKeyRef).Return(passstore.ErrUnavailable).Once()
	primary.EXPECT().Get(mock.Anything, apiKeyRef).Return("", passstore.ErrUnavailable).Once()

	files := filestore.NewStore(filepath.Join(t.TempDir(), "secrets"))
	store, err := NewStore("cps/authority/", primary, files)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), apiKeyRef, "secret"))
	require.NoError(t, store.Delete(context.Background(), apiKeyRef))

	_, err = store.Get(context.Background(), apiKeyRef)
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}
