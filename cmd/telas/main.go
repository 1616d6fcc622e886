// Command telas runs the fabric catalog service and its maintenance tasks.
//
//	telas serve
//	telas migrate
//	telas fabrics list --category Seda
//	telas cart add 2 1.5
//	telas cart order
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/telascatalogo/telas/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "telas",
	Short:         "Fabric catalog and order composer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Catalog and cart
	rootCmd.AddCommand(fabricsCmd)
	rootCmd.AddCommand(cartCmd)
}
