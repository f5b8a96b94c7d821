package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	sqliteRepo "github.com/iho/rentledger/internal/adapter/repository/sqlite"
	"github.com/iho/rentledger/internal/infrastructure/config"
	"github.com/iho/rentledger/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		actor   string
	)

	rootCmd := &cobra.Command{
		Use:           "rentledger-cli",
		Short:         "RentLedger CLI tool",
		Long:          `A command line interface for the RentLedger API and database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", envOr("RENTLEDGER_URL", "http://localhost:8080"), "Base URL of the RentLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", os.Getenv("USER"), "Actor recorded in the audit log")

	api := func() *apiClient { return newAPIClient(baseURL, timeout, actor) }

	rootCmd.AddCommand(
		ledgerCmd(api),
		entriesCmd(api),
		advancesCmd(api),
		migrateCmd(),
	)
	return rootCmd
}

func ledgerCmd(api func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check stored balances against a fresh computation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var report dto.ConsistencyResponse
			status, err := api().do(cmd.Context(), "GET", "/api/v1/ledger/consistency", nil, &report)
			if err != nil && status != 409 {
				return err
			}
			renderConsistency(cmd.OutOrStdout(), &report)
			if !report.Consistent {
				return fmt.Errorf("ledger is inconsistent")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recalculate",
		Short: "Rewrite every running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result dto.RecalculationResponse
			if _, err := api().do(cmd.Context(), "POST", "/api/v1/ledger/recalculate", nil, &result); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(
				"Recalculated %d entries (%d updated), final balance %s",
				result.Entries, result.Updated, result.FinalBalance.StringFixed(2))))
			return nil
		},
	})

	var start, end string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Credits and debits for a period, by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var report dto.ReportResponse
			path := "/api/v1/ledger/report" + queryString(map[string]string{"start": start, "end": end})
			if _, err := api().do(cmd.Context(), "GET", path, nil, &report); err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), &report)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")
	cmd.AddCommand(reportCmd)

	return cmd
}

func entriesCmd(api func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Ledger entries",
	}

	var (
		start, end, entryType, category string
		limit                           int
		asJSON                          bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries in ledger order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := queryString(map[string]string{
				"start":    start,
				"end":      end,
				"type":     entryType,
				"category": category,
				"limit":    fmt.Sprint(limit),
			})
			var entries []*dto.EntryResponse
			if _, err := api().do(cmd.Context(), "GET", "/api/v1/entries"+query, nil, &entries); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	listCmd.Flags().StringVar(&start, "start", "", "Earliest entry date, YYYY-MM-DD")
	listCmd.Flags().StringVar(&end, "end", "", "Latest entry date, YYYY-MM-DD")
	listCmd.Flags().StringVar(&entryType, "type", "", "CREDIT or DEBIT")
	listCmd.Flags().StringVar(&category, "category", "", "Entry category")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum entries")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "from-payment PAYMENT_ID",
		Short: "Record the credit for a paid rent charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry dto.EntryResponse
			if _, err := api().do(cmd.Context(), "POST", "/api/v1/entries/from-payment/"+args[0], nil, &entry); err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), []*dto.EntryResponse{&entry})
			return nil
		},
	})

	return cmd
}

func advancesCmd(api func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advances",
		Short: "Advance payments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance LEASE_ID",
		Short: "Show a lease's available advance credit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			if _, err := api().do(cmd.Context(), "GET", "/api/v1/leases/"+args[0]+"/advance-balance", nil, &balance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render(balance.LeaseID), balance.Available.StringFixed(2))
			return nil
		},
	})

	var status string
	listCmd := &cobra.Command{
		Use:   "list LEASE_ID",
		Short: "List a lease's advances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var advances []*dto.AdvanceResponse
			path := "/api/v1/leases/" + args[0] + "/advances" + queryString(map[string]string{"status": status})
			if _, err := api().do(cmd.Context(), "GET", path, nil, &advances); err != nil {
				return err
			}
			renderAdvances(cmd.OutOrStdout(), advances)
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "ACTIVE, USED, REFUNDED or TRANSFERRED")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "apply LEASE_ID",
		Short: "Cover a lease's pending payments from its advances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats dto.AllocationStatsResponse
			if _, err := api().do(cmd.Context(), "POST", "/api/v1/leases/"+args[0]+"/apply-advances", nil, &stats); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(
				"Processed %d payments, %d fully paid, %s used",
				stats.Processed, stats.FullyPaid, stats.TotalUsed.StringFixed(2))))
			for _, w := range stats.Warnings {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("warning: "+w))
			}
			return nil
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		driver         string
		databaseURL    string
		sqlitePath     string
		migrationsPath string
	)

	run := func(ctx context.Context, up bool) error {
		switch driver {
		case config.DriverPostgres:
			if up {
				return postgres.RunMigrations(ctx, databaseURL, migrationsPath)
			}
			return postgres.RunMigrationsDown(ctx, databaseURL, migrationsPath)
		case config.DriverSQLite:
			db, err := sqliteRepo.Open(sqlitePath)
			if err != nil {
				return err
			}
			defer db.Close()
			if up {
				return sqliteRepo.Migrate(ctx, db)
			}
			return sqliteRepo.MigrateDown(ctx, db)
		default:
			return fmt.Errorf("unknown driver %q", driver)
		}
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", envOr("STORAGE_DRIVER", config.DriverPostgres), "postgres or sqlite")
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", envOr("SQLITE_PATH", "rentledger.db"), "SQLite database file")
	cmd.PersistentFlags().StringVar(&migrationsPath, "migrations-path", os.Getenv("MIGRATIONS_PATH"), "Directory overriding the embedded PostgreSQL migrations")

	for _, dir := range []struct {
		name string
		up   bool
	}{{"up", true}, {"down", false}} {
		cmd.AddCommand(&cobra.Command{
			Use:   dir.name,
			Short: "Migrate " + dir.name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := run(cmd.Context(), dir.up); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("migrations "+dir.name+" complete ("+driver+")"))
				return nil
			},
		})
	}

	return cmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
