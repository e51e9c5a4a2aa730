package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mainstreet-labs/mainstreet/internal/cli"
	"github.com/mainstreet-labs/mainstreet/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mainstreetd",
		Short: "Mainstreet daemon and CLI",
		Long:  "Mainstreet daemon for running the directory API server and managing tenants",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.TenantCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
