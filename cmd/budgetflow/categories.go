package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category tree",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesRenameCmd())
	cmd.AddCommand(categoriesArchiveCmd())
	cmd.AddCommand(categoriesRestoreCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	cmd.AddCommand(categoriesMoveCmd())
	cmd.AddCommand(categoriesSeedCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
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
			for _, cat := range data.Categories {
				indent := ""
				if cat.ParentID != nil {
					indent = "  "
				}
				state := ""
				if cat.Archived {
					state = " (archived)"
				}
				fmt.Printf("%s%d. [%s] %s%s\n", indent, cat.ID, cat.Group, cat.Name, state)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var group string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var parent *int64
			if parentID != 0 {
				parent = &parentID
			}
			cat, err := engine.CreateCategory(cmd.Context(), currentUser(), model.CategoryGroup(group), args[0], parent)
			if err != nil {
				return err
			}
			fmt.Printf("Created category %d: %s\n", cat.ID, cat.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", string(model.GroupExpense), "category group (income, giving, savings, expense, debt, misc)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent category ID")
	return cmd
}

func categoriesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
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

			cat, err := engine.RenameCategory(cmd.Context(), currentUser(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Renamed category %d to %s\n", cat.ID, cat.Name)
			return nil
		},
	}
}

func categoriesArchiveCmd() *cobra.Command {
	return categoryActionCmd("archive", "Archive a category", func(e engineAction, id int64) error {
		return e.engine.ArchiveCategory(e.ctx, e.user, id)
	})
}

func categoriesRestoreCmd() *cobra.Command {
	return categoryActionCmd("restore", "Restore an archived category", func(e engineAction, id int64) error {
		return e.engine.RestoreCategory(e.ctx, e.user, id)
	})
}

func categoriesDeleteCmd() *cobra.Command {
	return categoryActionCmd("rm", "Delete a childless, non-default category", func(e engineAction, id int64) error {
		return e.engine.DeleteCategory(e.ctx, e.user, id)
	})
}

func categoriesMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <dragged-id> <target-id>",
		Short: "Move a category next to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draggedID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[0])
			}
			targetID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[1])
			}

			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.ReorderCategory(cmd.Context(), currentUser(), draggedID, targetID)
		},
	}
}

func categoriesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default category set for a fresh budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, closeFn, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return engine.SeedDefaultCategories(cmd.Context(), currentUser())
		},
	}
}
