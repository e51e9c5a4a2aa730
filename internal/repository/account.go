package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/pagination"
	"github.com/mainstreet-labs/mainstreet/internal/service"
)

// kmPerDegree scales planar degree distance to kilometres. A flat-earth
// approximation, matching the radius filter's contract.
const kmPerDegree = 111

const accountColumns = `id, tenant_id, email_address, company_name, description, phone, website,
	 lat, lng, attributes, bus_address_1, bus_city, bus_state, bus_zip, logo_key, created_at, updated_at`

type AccountRepository struct {
	db dbtx
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: pool}
}

func NewAccountRepositoryWithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{db: tx}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	attrs, err := json.Marshal(a.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO accounts (id, tenant_id, email_address, company_name, description, phone, website,
		   lat, lng, attributes, bus_address_1, bus_city, bus_state, bus_zip, logo_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		a.ID, a.TenantID, a.EmailAddress,
		nullableString(a.CompanyName), nullableString(a.Description),
		nullableString(a.Phone), nullableString(a.Website),
		a.Lat, a.Lng, attrs,
		nullableString(a.Street), nullableString(a.City),
		nullableString(a.State), nullableString(a.Zip),
		nullableString(a.LogoKey),
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *AccountRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	account, err := scanAccountRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	attrs, err := json.Marshal(a.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE accounts
		 SET company_name = $1, description = $2, phone = $3, website = $4, attributes = $5, updated_at = $6
		 WHERE tenant_id = $7 AND id = $8`,
		nullableString(a.CompanyName), nullableString(a.Description),
		nullableString(a.Phone), nullableString(a.Website),
		attrs, a.UpdatedAt, a.TenantID, a.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetLogoKey(ctx context.Context, tenantID, id, logoKey string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE accounts SET logo_key = $1 WHERE tenant_id = $2 AND id = $3`,
		nullableString(logoKey), tenantID, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ListWithCursor pages through a tenant's accounts in insertion order,
// the same ordering the search executor uses.
func (r *AccountRepository) ListWithCursor(ctx context.Context, tenantID string, cursor *pagination.Cursor, limit int) (*service.AccountPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+accountColumns+`
			 FROM accounts
			 WHERE tenant_id = $1 AND (created_at, id) > ($2, $3)
			 ORDER BY created_at ASC, id ASC
			 LIMIT $4`,
			tenantID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+accountColumns+`
			 FROM accounts
			 WHERE tenant_id = $1
			 ORDER BY created_at ASC, id ASC
			 LIMIT $2`,
			tenantID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(accounts) > limit
	if hasMore {
		accounts = accounts[:limit]
	}

	var nextCursor string
	if hasMore && len(accounts) > 0 {
		last := accounts[len(accounts)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.AccountPageResult{
		Items:      accounts,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// Search evaluates the filter predicates. The tenant predicate always comes
// first; text, category and radius clauses are ANDed on top. Ordering is
// insertion order (created_at, id) so a repeated search ranks identically.
func (r *AccountRepository) Search(ctx context.Context, filters service.SearchFilters) ([]*domain.Account, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1`)
	args := []any{filters.TenantID}

	if filters.Text != "" {
		pattern := "%" + filters.Text + "%"
		args = append(args, pattern)
		n := len(args)
		fmt.Fprintf(&sb,
			` AND (company_name ILIKE $%d OR description ILIKE $%d OR attributes::text ILIKE $%d)`,
			n, n, n,
		)
	}

	if filters.CategoryID != "" {
		args = append(args, filters.CategoryID)
		fmt.Fprintf(&sb,
			` AND EXISTS (SELECT 1 FROM account_categories ac WHERE ac.account_id = accounts.id AND ac.category_id = $%d)`,
			len(args),
		)
	}

	if loc := filters.Location; loc != nil {
		args = append(args, loc.Lat, loc.Lng, loc.RadiusKM)
		n := len(args)
		fmt.Fprintf(&sb,
			` AND lat IS NOT NULL AND lng IS NOT NULL
			  AND sqrt(power(lat - $%d, 2) + power(lng - $%d, 2)) * %d < $%d`,
			n-2, n-1, kmPerDegree, n,
		)
	}

	args = append(args, filters.Limit)
	fmt.Fprintf(&sb, ` ORDER BY created_at ASC, id ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccountRows(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountRow(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var companyName, description, phone, website *string
	var street, city, state, zip, logoKey *string
	var attrs []byte

	err := row.Scan(
		&a.ID, &a.TenantID, &a.EmailAddress, &companyName, &description, &phone, &website,
		&a.Lat, &a.Lng, &attrs, &street, &city, &state, &zip, &logoKey,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyName != nil {
		a.CompanyName = *companyName
	}
	if description != nil {
		a.Description = *description
	}
	if phone != nil {
		a.Phone = *phone
	}
	if website != nil {
		a.Website = *website
	}
	if street != nil {
		a.Street = *street
	}
	if city != nil {
		a.City = *city
	}
	if state != nil {
		a.State = *state
	}
	if zip != nil {
		a.Zip = *zip
	}
	if logoKey != nil {
		a.LogoKey = *logoKey
	}

	a.Attributes = map[string]any{}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &a.Attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
		}
	}

	return &a, nil
}

func scanAccountRows(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
