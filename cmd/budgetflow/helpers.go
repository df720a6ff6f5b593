package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mthorne/budgetflow/internal/config"
	"github.com/mthorne/budgetflow/internal/ledger"
	"github.com/mthorne/budgetflow/internal/storage"
)

// openStorage opens (and migrates) the configured database.
func openStorage() (*storage.SQLiteStorage, error) {
	path := viper.GetString("database.path")
	if path == "" {
		var err error
		if path, err = config.DefaultDatabasePath(); err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	return storage.NewSQLiteStorage(config.ExpandPath(path))
}

// openEngine opens storage and wraps it in the ledger engine. The
// returned closer must be called when done.
func openEngine(ctx context.Context) (*ledger.Engine, func(), error) {
	store, err := openStorage()
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return ledger.New(store), func() { _ = store.Close() }, nil
}

// currentUser returns the budget owner every command operates on.
func currentUser() string {
	return viper.GetString("user")
}

// parseMonth accepts YYYY-MM; an empty string means the current month.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return t, nil
}

// parseAmount parses a decimal money amount.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func mustNowMonth() time.Time {
	return time.Now().UTC()
}

// engineAction bundles what a simple per-ID subcommand needs.
type engineAction struct {
	ctx    context.Context
	engine *ledger.Engine
	user   string
}

// categoryActionCmd builds a one-ID-argument category subcommand.
func categoryActionCmd(use, short string, fn func(engineAction, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[0])
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return fn(engineAction{ctx: cmd.Context(), engine: engine, user: currentUser()}, id)
		},
	}
}

// optionalAmount parses an amount flag that may be unset.
func optionalAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
