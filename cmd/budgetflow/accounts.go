package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit cards",
	}
	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credit cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := engine.LoadMonth(cmd.Context(), currentUser(), mustNowMonth())
			if err != nil {
				return err
			}
			for _, card := range data.Cards {
				fmt.Printf("%s  %-24s balance %12s\n", card.ID, card.Name, card.Balance.StringFixed(2))
			}
			return nil
		},
	}
}

func cardsAddCmd() *cobra.Command {
	var balance, apr, minPayment string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a credit card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := parseAmount(balance)
			if err != nil {
				return err
			}
			aprD, err := optionalAmount(apr)
			if err != nil {
				return err
			}
			minD, err := optionalAmount(minPayment)
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			card, err := engine.AddCreditCard(cmd.Context(), currentUser(), args[0], bal, aprD, minD)
			if err != nil {
				return err
			}
			fmt.Printf("Added card %s: %s\n", card.ID, card.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "current balance")
	cmd.Flags().StringVar(&apr, "apr", "", "annual percentage rate")
	cmd.Flags().StringVar(&minPayment, "min-payment", "", "minimum payment")
	return cmd
}

func debtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Manage debt accounts",
	}
	cmd.AddCommand(debtsListCmd())
	cmd.AddCommand(debtsAddCmd())
	return cmd
}

func debtsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debt accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := engine.LoadMonth(cmd.Context(), currentUser(), mustNowMonth())
			if err != nil {
				return err
			}
			for _, debt := range data.Debts {
				fmt.Printf("%s  %-24s [%s] balance %12s\n", debt.ID, debt.Name, debt.DebtType, debt.Balance.StringFixed(2))
			}
			return nil
		},
	}
}

func debtsAddCmd() *cobra.Command {
	var debtType, balance, apr, minPayment string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a debt account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := parseAmount(balance)
			if err != nil {
				return err
			}
			aprD, err := optionalAmount(apr)
			if err != nil {
				return err
			}
			minD, err := optionalAmount(minPayment)
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			debt, err := engine.AddDebtAccount(cmd.Context(), currentUser(), args[0],
				model.DebtType(debtType), bal, aprD, minD, nil)
			if err != nil {
				return err
			}
			fmt.Printf("Added debt account %s: %s\n", debt.ID, debt.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&debtType, "type", string(model.DebtLoan), "debt type (credit_card, loan, mortgage, student_loan, other)")
	cmd.Flags().StringVar(&balance, "balance", "0", "current balance")
	cmd.Flags().StringVar(&apr, "apr", "", "annual percentage rate")
	cmd.Flags().StringVar(&minPayment, "min-payment", "", "minimum payment")
	return cmd
}
