package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/ledger"
)

func monthCmd() *cobra.Command {
	var monthFlag string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show planned vs actual for a month",
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

			ctx := cmd.Context()
			user := currentUser()

			bm, err := engine.RefreshBudgetMonth(ctx, user, month)
			if err != nil {
				return err
			}

			data, err := engine.LoadMonth(ctx, user, month)
			if err != nil {
				return err
			}
			rows, err := engine.BucketRows(ctx, user, month)
			if err != nil {
				return err
			}

			fmt.Printf("Budget for %s\n", bm.Month.Format("January 2006"))
			fmt.Printf("Available to budget: start %s, end %s\n\n", bm.AvailableStart.StringFixed(2), bm.AvailableEnd.StringFixed(2))

			fmt.Printf("%-32s %12s %12s %12s\n", "Bucket", "Planned", "Actual", "Remaining")
			for _, row := range rows {
				marker := ""
				if row.Overspent {
					marker = " !"
				}
				fmt.Printf("%-32s %12s %12s %12s%s\n",
					row.Label, row.Planned.StringFixed(2), row.Actual.StringFixed(2), row.Remaining.StringFixed(2), marker)
			}

			rollups := ledger.ParentRollups(rows, data.Categories)
			if len(rollups) > 0 {
				fmt.Println("\nGroup totals")
				for _, row := range rollups {
					fmt.Printf("%-32s %12s %12s %12s\n",
						row.Label, row.Planned.StringFixed(2), row.Actual.StringFixed(2), row.Remaining.StringFixed(2))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "month to show (YYYY-MM, default current)")
	return cmd
}
