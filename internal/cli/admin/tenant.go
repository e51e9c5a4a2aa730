package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mainstreet-labs/mainstreet/internal/config"
	"github.com/mainstreet-labs/mainstreet/internal/database"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/repository"
)

func TenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
		Long:  "Create and list directory tenants",
	}

	cmd.AddCommand(TenantCreateCmd())
	cmd.AddCommand(TenantListCmd())

	return cmd
}

func TenantCreateCmd() *cobra.Command {
	var (
		slug       string
		domainName string
		tenantType string
		tier       string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new tenant",
		Long:  "Create a new active tenant with the specified display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runTenantCreate(args[0], slug, domainName, tenantType, tier, outputFormat)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (defaults to the lowercased name)")
	cmd.Flags().StringVar(&domainName, "domain", "", "Custom domain")
	cmd.Flags().StringVar(&tenantType, "type", "directory", "Tenant type")
	cmd.Flags().StringVar(&tier, "tier", "free", "Subscription tier")

	return cmd
}

func runTenantCreate(name, slug, domainName, tenantType, tier, outputFormat string) error {
	ctx := context.Background()

	if slug == "" {
		slug = slugify(name)
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	tenant := &domain.Tenant{
		ID:               uuid.NewString(),
		Slug:             slug,
		Name:             name,
		Domain:           domainName,
		TenantType:       tenantType,
		SubscriptionTier: tier,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}
	if err := domain.ValidateTenant(tenant); err != nil {
		return err
	}

	tenantRepo := repository.NewTenantRepository(pool)
	if err := tenantRepo.Create(ctx, tenant); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":         tenant.ID,
			"slug":       tenant.Slug,
			"name":       tenant.Name,
			"created_at": tenant.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Tenant created: %s (%s)\n", tenant.Name, tenant.ID)
	}

	return nil
}

func TenantListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tenants",
		Long:  "List all tenants in the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runTenantList(outputFormat)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runTenantList(outputFormat string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	tenantRepo := repository.NewTenantRepository(pool)
	tenants, err := tenantRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(tenants))
		for i, t := range tenants {
			data[i] = map[string]interface{}{
				"id":         t.ID,
				"slug":       t.Slug,
				"name":       t.Name,
				"is_active":  t.IsActive,
				"created_at": t.CreatedAt,
			}
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		if len(tenants) == 0 {
			fmt.Println("No tenants found")
			return nil
		}
		fmt.Println("Tenants:")
		for _, t := range tenants {
			status := "active"
			if !t.IsActive {
				status = "inactive"
			}
			fmt.Printf("  %s: %s [%s] (%s, created: %s)\n",
				t.ID, t.Name, t.Slug, status, t.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}
