package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/api/middleware"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/service"
)

type AccountManager interface {
	Create(ctx context.Context, input service.CreateAccountInput) (*domain.Account, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error)
	Update(ctx context.Context, input service.UpdateAccountInput) (*domain.Account, error)
	List(ctx context.Context, tenantID, cursor string, limit int) (*service.AccountPageResult, error)
	LogoUploadURL(ctx context.Context, tenantID, accountID, contentType string) (string, error)
	LogoDownloadURL(ctx context.Context, tenantID, accountID string) (string, error)
}

type AccountHandler struct {
	svc AccountManager
}

func NewAccountHandler(svc AccountManager) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type CreateAccountRequest struct {
	EmailAddress string         `json:"email_address"`
	CompanyName  string         `json:"company_name"`
	Description  string         `json:"description"`
	Phone        string         `json:"phone"`
	Website      string         `json:"website"`
	Lat          *float64       `json:"lat"`
	Lng          *float64       `json:"lng"`
	Attributes   map[string]any `json:"attributes"`
	Street       string         `json:"bus_address_1"`
	City         string         `json:"bus_city"`
	State        string         `json:"bus_state"`
	Zip          string         `json:"bus_zip"`
}

type UpdateAccountRequest struct {
	CompanyName *string        `json:"company_name"`
	Description *string        `json:"description"`
	Phone       *string        `json:"phone"`
	Website     *string        `json:"website"`
	Attributes  map[string]any `json:"attributes"`
}

type AccountResponse struct {
	ID           string         `json:"id"`
	EmailAddress string         `json:"email_address"`
	CompanyName  string         `json:"company_name"`
	Description  string         `json:"description,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Website      string         `json:"website,omitempty"`
	Lat          *float64       `json:"lat"`
	Lng          *float64       `json:"lng"`
	Attributes   map[string]any `json:"attributes"`
	Address      *string        `json:"address"`
	HasLogo      bool           `json:"has_logo"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

func accountToResponse(a *domain.Account) *AccountResponse {
	var address *string
	if formatted := a.FormatAddress(); formatted != "" {
		address = &formatted
	}

	return &AccountResponse{
		ID:           a.ID,
		EmailAddress: a.EmailAddress,
		CompanyName:  a.CompanyName,
		Description:  a.Description,
		Phone:        a.Phone,
		Website:      a.Website,
		Lat:          a.Lat,
		Lng:          a.Lng,
		Attributes:   a.Attributes,
		Address:      address,
		HasLogo:      a.LogoKey != "",
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    a.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateAccountInput{
		TenantID:     tenantID,
		EmailAddress: req.EmailAddress,
		CompanyName:  req.CompanyName,
		Description:  req.Description,
		Phone:        req.Phone,
		Website:      req.Website,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Attributes:   req.Attributes,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
	}

	account, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, accountToResponse(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	account, err := h.svc.GetByID(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, accountToResponse(account))
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateAccountInput{
		TenantID:    tenantID,
		AccountID:   id,
		CompanyName: req.CompanyName,
		Description: req.Description,
		Phone:       req.Phone,
		Website:     req.Website,
		Attributes:  req.Attributes,
	}

	account, err := h.svc.Update(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, accountToResponse(account))
}

type AccountListResponse struct {
	Items   []*AccountResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	cursor := r.URL.Query().Get("cursor")
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	page, err := h.svc.List(r.Context(), tenantID, cursor, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*AccountResponse, len(page.Items))
	for i, a := range page.Items {
		items[i] = accountToResponse(a)
	}

	api.Success(w, http.StatusOK, AccountListResponse{
		Items:   items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	})
}

type LogoUploadRequest struct {
	ContentType string `json:"content_type"`
}

type LogoURLResponse struct {
	URL string `json:"url"`
}

// LogoUpload handles POST /api/accounts/{id}/logo: a presigned PUT URL the
// client uploads the image to directly.
func (h *AccountHandler) LogoUpload(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req LogoUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/png"
	}

	url, err := h.svc.LogoUploadURL(r.Context(), tenantID, id, req.ContentType)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, LogoURLResponse{URL: url})
}

// LogoDownload handles GET /api/accounts/{id}/logo.
func (h *AccountHandler) LogoDownload(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	url, err := h.svc.LogoDownloadURL(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, LogoURLResponse{URL: url})
}
