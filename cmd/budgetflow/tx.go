package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/ledger"
)

// txFlags are shared by tx add and tx edit.
type txFlags struct {
	date     string
	name     string
	amount   string
	category int64
	card     string
	debt     string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.name, "name", "", "transaction name (synthesized when blank)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount (positive decimal)")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category ID")
	cmd.Flags().StringVar(&f.card, "card", "", "linked credit card ID")
	cmd.Flags().StringVar(&f.debt, "debt", "", "linked debt account ID")
}

func (f *txFlags) input() (ledger.TransactionInput, error) {
	var in ledger.TransactionInput

	if f.date == "" {
		in.Date = time.Now().UTC()
	} else {
		date, err := time.Parse("2006-01-02", f.date)
		if err != nil {
			return in, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", f.date)
		}
		in.Date = date
	}

	amount, err := parseAmount(f.amount)
	if err != nil {
		return in, err
	}
	in.Amount = amount
	in.Name = f.name

	if f.category != 0 {
		id := f.category
		in.CategoryID = &id
	}
	if f.card != "" {
		id := f.card
		in.CreditCardID = &id
	}
	if f.debt != "" {
		id := f.debt
		in.DebtAccountID = &id
	}
	return in, nil
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record, edit, and delete transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txListCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			txn, err := engine.InsertTransaction(cmd.Context(), currentUser(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s: %s %s\n", txn.ID, txn.Name, txn.Amount.StringFixed(2))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func txEditCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction, keeping linked balances consistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			txn, err := engine.EditTransaction(cmd.Context(), currentUser(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s: %s %s\n", txn.ID, txn.Name, txn.Amount.StringFixed(2))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction, reversing its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.DeleteTransaction(cmd.Context(), currentUser(), args[0])
		},
	}
}

func txListCmd() *cobra.Command {
	var monthFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := engine.LoadMonth(cmd.Context(), currentUser(), month)
			if err != nil {
				return err
			}
			for _, txn := range data.Transactions {
				fmt.Printf("%s  %s  %-32s %12s\n",
					txn.ID, txn.Date.Format("2006-01-02"), txn.Name, txn.Amount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "month to list (YYYY-MM, default current)")
	return cmd
}
