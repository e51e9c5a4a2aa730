package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/pagination"
)

// MockAccountStore is a mock implementation of AccountStoreInterface
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountStore) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountStore) SetLogoKey(ctx context.Context, tenantID, id, logoKey string) error {
	args := m.Called(ctx, tenantID, id, logoKey)
	return args.Error(0)
}

func (m *MockAccountStore) ListWithCursor(ctx context.Context, tenantID string, cursor *pagination.Cursor, limit int) (*AccountPageResult, error) {
	args := m.Called(ctx, tenantID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AccountPageResult), args.Error(1)
}

// MockStorageClient is a mock implementation of StorageClientInterface
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with defaults", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountServiceWithUUIDGen(store, nil, NewMockUUIDGenerator("account-1"))

		store.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.ID == "account-1" &&
				a.TenantID == "tenant-1" &&
				a.EmailAddress == "owner@example.com" &&
				a.Attributes != nil &&
				len(a.Attributes) == 0
		})).Return(nil)

		account, err := svc.Create(ctx, CreateAccountInput{
			TenantID:     "tenant-1",
			EmailAddress: "  owner@example.com ",
			CompanyName:  "Mario's Pizza",
		})

		require.NoError(t, err)
		assert.Equal(t, "account-1", account.ID)
		assert.Equal(t, "owner@example.com", account.EmailAddress)
		store.AssertExpectations(t)
	})

	t.Run("requires an email address", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		_, err := svc.Create(ctx, CreateAccountInput{TenantID: "tenant-1"})

		assert.ErrorIs(t, err, domain.ErrMissingEmail)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a half-specified coordinate", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		lat := 40.7
		_, err := svc.Create(ctx, CreateAccountInput{
			TenantID:     "tenant-1",
			EmailAddress: "owner@example.com",
			Lat:          &lat,
		})

		require.Error(t, err)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the provided fields", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		existing := &domain.Account{
			ID:           "account-1",
			TenantID:     "tenant-1",
			EmailAddress: "owner@example.com",
			CompanyName:  "Old Name",
			Phone:        "555-0100",
			UpdatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		store.On("GetByID", mock.Anything, "tenant-1", "account-1").Return(existing, nil)

		newName := "New Name"
		store.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.CompanyName == "New Name" &&
				a.Phone == "555-0100" &&
				a.UpdatedAt.After(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		})).Return(nil)

		account, err := svc.Update(ctx, UpdateAccountInput{
			TenantID:    "tenant-1",
			AccountID:   "account-1",
			CompanyName: &newName,
		})

		require.NoError(t, err)
		assert.Equal(t, "New Name", account.CompanyName)
		assert.Equal(t, "555-0100", account.Phone)
		store.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		store.On("GetByID", mock.Anything, "tenant-1", "missing").Return(nil, domain.ErrAccountNotFound)

		_, err := svc.Update(ctx, UpdateAccountInput{TenantID: "tenant-1", AccountID: "missing"})

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAccountService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a malformed cursor", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		_, err := svc.List(ctx, "tenant-1", "not base64!!", 20)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
		store.AssertNotCalled(t, "ListWithCursor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("passes a decoded cursor through", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		ts := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		encoded := pagination.EncodeCursor("account-5", ts)

		store.On("ListWithCursor", mock.Anything, "tenant-1", mock.MatchedBy(func(c *pagination.Cursor) bool {
			return c != nil && c.LastID == "account-5" && c.Timestamp.Equal(ts)
		}), 20).Return(&AccountPageResult{}, nil)

		_, err := svc.List(ctx, "tenant-1", encoded, 20)

		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestAccountService_Logo(t *testing.T) {
	ctx := context.Background()

	account := &domain.Account{
		ID:           "account-1",
		TenantID:     "tenant-1",
		EmailAddress: "owner@example.com",
	}

	t.Run("upload presigns and records the key", func(t *testing.T) {
		store := new(MockAccountStore)
		storageClient := new(MockStorageClient)
		svc := NewAccountService(store, storageClient)

		store.On("GetByID", mock.Anything, "tenant-1", "account-1").Return(account, nil)
		storageClient.On("GenerateUploadURL", mock.Anything, "logos/tenant-1/account-1", "image/png").
			Return("https://bucket.example.com/put", nil)
		store.On("SetLogoKey", mock.Anything, "tenant-1", "account-1", "logos/tenant-1/account-1").Return(nil)

		url, err := svc.LogoUploadURL(ctx, "tenant-1", "account-1", "image/png")

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.example.com/put", url)
		store.AssertExpectations(t)
		storageClient.AssertExpectations(t)
	})

	t.Run("download requires an uploaded logo", func(t *testing.T) {
		store := new(MockAccountStore)
		storageClient := new(MockStorageClient)
		svc := NewAccountService(store, storageClient)

		store.On("GetByID", mock.Anything, "tenant-1", "account-1").Return(account, nil)

		_, err := svc.LogoDownloadURL(ctx, "tenant-1", "account-1")

		assert.ErrorIs(t, err, domain.ErrLogoNotFound)
		storageClient.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything)
	})

	t.Run("download presigns the stored key", func(t *testing.T) {
		store := new(MockAccountStore)
		storageClient := new(MockStorageClient)
		svc := NewAccountService(store, storageClient)

		withLogo := *account
		withLogo.LogoKey = "logos/tenant-1/account-1"
		store.On("GetByID", mock.Anything, "tenant-1", "account-1").Return(&withLogo, nil)
		storageClient.On("GenerateDownloadURL", mock.Anything, "logos/tenant-1/account-1").
			Return("https://bucket.example.com/get", nil)

		url, err := svc.LogoDownloadURL(ctx, "tenant-1", "account-1")

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.example.com/get", url)
	})

	t.Run("errors cleanly when storage is not configured", func(t *testing.T) {
		store := new(MockAccountStore)
		svc := NewAccountService(store, nil)

		_, err := svc.LogoUploadURL(ctx, "tenant-1", "account-1", "image/png")
		assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)

		_, err = svc.LogoDownloadURL(ctx, "tenant-1", "account-1")
		assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)
	})
}
