package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/model"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage planned totals per bucket",
	}
	cmd.AddCommand(planSetCmd())
	cmd.AddCommand(planStartCmd())
	return cmd
}

func planSetCmd() *cobra.Command {
	var (
		monthFlag string
		category  int64
		card      string
		debt      string
		confirm   bool
	)

	cmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the planned total for a bucket",
		Long: `Set the planned total for a bucket: a category (--category), a credit
card payment bucket (--card), or a debt account bucket (--debt).

If several planned rows already exist for the bucket, the set is
destructive (they collapse into one row) and requires --confirm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}

			var key model.BucketKey
			switch {
			case category != 0:
				key = model.CategoryBucket(category)
			case card != "":
				key = model.CardBucket(card)
			case debt != "":
				key = model.DebtBucket(debt)
			default:
				return fmt.Errorf("one of --category, --card, or --debt is required")
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.UpdatePlannedTotal(cmd.Context(), currentUser(), month, key, amount, confirm)
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "month (YYYY-MM, default current)")
	cmd.Flags().Int64Var(&category, "category", 0, "category ID")
	cmd.Flags().StringVar(&card, "card", "", "credit card ID")
	cmd.Flags().StringVar(&debt, "debt", "", "debt account ID")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm collapsing multiple planned rows into one")
	return cmd
}

func planStartCmd() *cobra.Command {
	var monthFlag string

	cmd := &cobra.Command{
		Use:   "start <amount>",
		Short: "Pin the month's available-to-budget starting figure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			bm, err := engine.SetAvailableStart(cmd.Context(), currentUser(), month, amount)
			if err != nil {
				return err
			}
			fmt.Printf("Pinned %s: start %s, end %s\n",
				bm.Month.Format("2006-01"), bm.AvailableStart.StringFixed(2), bm.AvailableEnd.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "month (YYYY-MM, default current)")
	return cmd
}
