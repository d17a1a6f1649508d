package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/cart"
	"github.com/jovincart/storefront/models"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// cartSync builds a synchronizer primed with the server-side cart.
func cartSync(cmd *cobra.Command, a *app, userID string) (*cart.Synchronizer, error) {
	sync := cart.NewSynchronizer(a.client, userID, a.log)
	if err := sync.Refresh(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return sync, nil
}

func printCart(sync *cart.Synchronizer) {
	lines := sync.Lines()
	if len(lines) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("%-12s %-24s x%-3d %s\n", l.ProductID, l.ProductName, l.Quantity, cents(l.Subtotal()))
	}
	fmt.Printf("Total: %s\n", cents(sync.Total()))
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		userID, err := a.requireUser("")
		if err != nil {
			return err
		}
		sync, err := cartSync(cmd, a, userID)
		if err != nil {
			return err
		}
		printCart(sync)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a catalog product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, _ := cmd.Flags().GetInt("qty")
		if qty <= 0 {
			return errors.New("--qty must be positive")
		}

		a := newApp()
		userID, err := a.requireUser("")
		if err != nil {
			return err
		}

		product, err := findProduct(cmd, a, args[0])
		if err != nil {
			return err
		}

		sync, err := cartSync(cmd, a, userID)
		if err != nil {
			return err
		}
		err = sync.Add(cmd.Context(), models.CartLine{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       qty,
			ImageURL:       product.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		printCart(sync)
		return nil
	},
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <product-id>",
	Short: "Increase a line's quantity by one",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return cartStep(cmd, args[0], stepInc) },
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <product-id>",
	Short: "Decrease a line's quantity by one (removes it at one)",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return cartStep(cmd, args[0], stepDec) },
}

var cartRmCmd = &cobra.Command{
	Use:   "rm <product-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return cartStep(cmd, args[0], stepRm) },
}

type step int

const (
	stepInc step = iota
	stepDec
	stepRm
)

func cartStep(cmd *cobra.Command, productID string, op step) error {
	a := newApp()
	userID, err := a.requireUser("")
	if err != nil {
		return err
	}
	sync, err := cartSync(cmd, a, userID)
	if err != nil {
		return err
	}

	switch op {
	case stepInc:
		err = sync.Increment(cmd.Context(), productID)
	case stepDec:
		err = sync.Decrement(cmd.Context(), productID)
	case stepRm:
		err = sync.Remove(cmd.Context(), productID)
	}
	if errors.Is(err, cart.ErrLineNotFound) {
		return fmt.Errorf("product %s is not in the cart", productID)
	}
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	printCart(sync)
	return nil
}

func init() {
	cartAddCmd.Flags().Int("qty", 1, "quantity to add")
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartIncCmd, cartDecCmd, cartRmCmd)
	rootCmd.AddCommand(cartCmd)
}
