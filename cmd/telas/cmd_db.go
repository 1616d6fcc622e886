package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/config"
	"github.com/telascatalogo/telas/database/seeders"
	"github.com/telascatalogo/telas/pkg/database"
	"github.com/telascatalogo/telas/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// telas migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ran, err := migration.New(database.DB).Run()
		if err != nil {
			return err
		}
		if len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		for _, name := range ran {
			fmt.Println("Migrated:", name)
		}
		return nil
	},
}

// telas migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		rolled, err := migration.New(database.DB).Rollback()
		if err != nil {
			return err
		}
		if len(rolled) == 0 {
			fmt.Println("Nothing to rollback.")
		}
		for _, name := range rolled {
			fmt.Println("Rolled back:", name)
		}
		return nil
	},
}

// telas migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		statuses, err := migration.New(database.DB).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range statuses {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// telas seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		shareListingCache(cmd.Context(), repositories.NewFabricRepository(database.DB))
		if err := seeders.RunAll(cmd.Context(), database.DB); err != nil {
			return err
		}
		fmt.Printf("Seeding complete (%d seeders ran)\n", len(seeders.Names()))
		return nil
	},
}
