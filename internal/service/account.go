package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/pagination"
	"github.com/mainstreet-labs/mainstreet/internal/telemetry"
)

// AccountPageResult is one page of a cursor-paginated account listing.
type AccountPageResult struct {
	Items      []*domain.Account
	NextCursor string
	HasMore    bool
}

// AccountStoreInterface defines the repository interface for account
// management (distinct from the read-only search view).
type AccountStoreInterface interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	SetLogoKey(ctx context.Context, tenantID, id, logoKey string) error
	ListWithCursor(ctx context.Context, tenantID string, cursor *pagination.Cursor, limit int) (*AccountPageResult, error)
}

// StorageClientInterface issues presigned URLs for logo objects.
type StorageClientInterface interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// AccountService handles business logic for directory accounts.
type AccountService struct {
	accountRepo AccountStoreInterface
	storage     StorageClientInterface
	uuidGen     UUIDGenerator
}

// NewAccountService creates a new AccountService instance. storage may be nil
// when logo storage is not configured.
func NewAccountService(accountRepo AccountStoreInterface, storage StorageClientInterface) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		storage:     storage,
		uuidGen:     &DefaultUUIDGenerator{},
	}
}

// NewAccountServiceWithUUIDGen creates an AccountService with a custom UUID
// generator (for testing)
func NewAccountServiceWithUUIDGen(accountRepo AccountStoreInterface, storage StorageClientInterface, uuidGen UUIDGenerator) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		storage:     storage,
		uuidGen:     uuidGen,
	}
}

// CreateAccountInput represents the input for creating an account
type CreateAccountInput struct {
	TenantID     string
	EmailAddress string
	CompanyName  string
	Description  string
	Phone        string
	Website      string
	Lat          *float64
	Lng          *float64
	Attributes   map[string]any
	Street       string
	City         string
	State        string
	Zip          string
}

// UpdateAccountInput carries the mutable account fields. Nil pointers leave
// the stored value untouched.
type UpdateAccountInput struct {
	TenantID    string
	AccountID   string
	CompanyName *string
	Description *string
	Phone       *string
	Website     *string
	Attributes  map[string]any
}

// Create creates a new account owned by the given tenant.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "AccountService.Create", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "create",
	})
	defer span.End()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           s.uuidGen.NewString(),
		TenantID:     input.TenantID,
		EmailAddress: strings.TrimSpace(input.EmailAddress),
		CompanyName:  input.CompanyName,
		Description:  input.Description,
		Phone:        input.Phone,
		Website:      input.Website,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Attributes:   input.Attributes,
		Street:       input.Street,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if account.Attributes == nil {
		account.Attributes = map[string]any{}
	}

	if err := domain.ValidateAccount(account); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("account create", err)
	}

	return account, nil
}

// GetByID retrieves an account, scoped to the tenant.
func (s *AccountService) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, tenantID, id)
}

// Update applies the provided fields and bumps updated_at.
func (s *AccountService) Update(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "AccountService.Update", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "update",
	})
	defer span.End()

	account, err := s.accountRepo.GetByID(ctx, input.TenantID, input.AccountID)
	if err != nil {
		return nil, err
	}

	if input.CompanyName != nil {
		account.CompanyName = *input.CompanyName
	}
	if input.Description != nil {
		account.Description = *input.Description
	}
	if input.Phone != nil {
		account.Phone = *input.Phone
	}
	if input.Website != nil {
		account.Website = *input.Website
	}
	if input.Attributes != nil {
		account.Attributes = input.Attributes
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("account update", err)
	}

	return account, nil
}

// List returns one cursor page of the tenant's accounts.
func (s *AccountService) List(ctx context.Context, tenantID, cursor string, limit int) (*AccountPageResult, error) {
	decoded, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}
	return s.accountRepo.ListWithCursor(ctx, tenantID, decoded, limit)
}

// LogoUploadURL returns a presigned PUT URL for the account's logo and
// records the object key on the account.
func (s *AccountService) LogoUploadURL(ctx context.Context, tenantID, accountID, contentType string) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageNotConfigured
	}

	account, err := s.accountRepo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("logos/%s/%s", tenantID, account.ID)
	url, err := s.storage.GenerateUploadURL(ctx, key, contentType)
	if err != nil {
		return "", domain.NewUpstreamError("storage", err)
	}

	if err := s.accountRepo.SetLogoKey(ctx, tenantID, account.ID, key); err != nil {
		return "", domain.NewPersistenceError("logo key update", err)
	}

	return url, nil
}

// LogoDownloadURL returns a presigned GET URL for the account's logo.
func (s *AccountService) LogoDownloadURL(ctx context.Context, tenantID, accountID string) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageNotConfigured
	}

	account, err := s.accountRepo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return "", err
	}
	if account.LogoKey == "" {
		return "", domain.ErrLogoNotFound
	}

	url, err := s.storage.GenerateDownloadURL(ctx, account.LogoKey)
	if err != nil {
		return "", domain.NewUpstreamError("storage", err)
	}
	return url, nil
}
