package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/ledger"
)

func recalcCmd() *cobra.Command {
	var cardFlags, debtFlags []string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate card and debt balances from history",
		Long: `Recalculate balances from scratch: for each account you supply a
starting balance (id=amount), and the balance is rebuilt as that
starting balance minus every payment ever linked to the account. This
is the repair path for balances that drifted out of sync, e.g. after
data was imported outside the app.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balances := ledger.StartingBalances{
				Cards: map[string]decimal.Decimal{},
				Debts: map[string]decimal.Decimal{},
			}

			if err := parseBalanceFlags(cardFlags, balances.Cards); err != nil {
				return err
			}
			if err := parseBalanceFlags(debtFlags, balances.Debts); err != nil {
				return err
			}
			if len(balances.Cards) == 0 && len(balances.Debts) == 0 {
				return fmt.Errorf("nothing to recalculate; pass --card or --debt")
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.RecalculateBalances(cmd.Context(), currentUser(), balances)
		},
	}

	cmd.Flags().StringArrayVar(&cardFlags, "card", nil, "card starting balance as id=amount (repeatable)")
	cmd.Flags().StringArrayVar(&debtFlags, "debt", nil, "debt starting balance as id=amount (repeatable)")
	return cmd
}

func parseBalanceFlags(flags []string, out map[string]decimal.Decimal) error {
	for _, flag := range flags {
		id, amount, ok := strings.Cut(flag, "=")
		if !ok || id == "" {
			return fmt.Errorf("invalid balance %q (expected id=amount)", flag)
		}
		d, err := parseAmount(amount)
		if err != nil {
			return err
		}
		out[id] = d
	}
	return nil
}
