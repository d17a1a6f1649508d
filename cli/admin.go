package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/catalog"
	"github.com/jovincart/storefront/models"
	"github.com/jovincart/storefront/token"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Catalog administration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		price, _ := cmd.Flags().GetInt64("price")
		desc, _ := cmd.Flags().GetString("description")
		image, _ := cmd.Flags().GetString("image")
		if name == "" || price <= 0 {
			return errors.New("--name and a positive --price (in cents) are required")
		}

		a := newApp()
		if _, err := a.requireUser(token.RoleAdmin); err != nil {
			return err
		}

		svc := catalog.NewService(a.client, a.log)
		created, err := svc.Create(cmd.Context(), models.Product{
			Name:        name,
			PriceCents:  price,
			Description: desc,
		}, image)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		fmt.Printf("Created %s (%s, %s)\n", created.Name, created.ID, cents(created.PriceCents))
		return nil
	},
}

var adminRmCmd = &cobra.Command{
	Use:   "rm <product-id>",
	Short: "Remove a product from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if _, err := a.requireUser(token.RoleAdmin); err != nil {
			return err
		}

		if err := catalog.NewService(a.client, a.log).Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	adminAddCmd.Flags().String("name", "", "product name")
	adminAddCmd.Flags().Int64("price", 0, "unit price in cents")
	adminAddCmd.Flags().String("description", "", "product description")
	adminAddCmd.Flags().String("image", "", "path to a product image to upload")

	adminCmd.AddCommand(adminAddCmd, adminRmCmd)
	rootCmd.AddCommand(adminCmd)
}
