package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/catalog"
	"github.com/jovincart/storefront/models"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		svc := catalog.NewService(a.client, a.log)
		products, err := svc.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch catalog: %w", err)
		}
		if len(products) == 0 {
			fmt.Println("Catalog is empty")
			return nil
		}
		for _, p := range products {
			fmt.Printf("%-36s %-24s %s\n", p.ID, p.Name, cents(p.PriceCents))
		}
		return nil
	},
}

// findProduct resolves a catalog product by id.
func findProduct(cmd *cobra.Command, a *app, id string) (models.Product, error) {
	products, err := catalog.NewService(a.client, a.log).List(cmd.Context())
	if err != nil {
		return models.Product{}, fmt.Errorf("fetch catalog: %w", err)
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("no product with id %s", id)
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
