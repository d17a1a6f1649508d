package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/checkout"
	"github.com/jovincart/storefront/gateway"
	"github.com/jovincart/storefront/models"
)

// terminalWidget stands in for a hosted payment page: it shows the intent,
// asks for confirmation, and settles through the backend's development
// payment endpoint.
type terminalWidget struct {
	client *gateway.Client
	in     *bufio.Reader
}

func (w terminalWidget) Open(ctx context.Context, intent models.PaymentIntent) (models.PaymentProof, error) {
	fmt.Printf("Pay %s? [y/N] ", cents(intent.AmountCents))
	answer, err := w.in.ReadString('\n')
	if err != nil || strings.TrimSpace(strings.ToLower(answer)) != "y" {
		return models.PaymentProof{}, checkout.ErrCancelled
	}
	return w.client.SimulatePayment(ctx, intent.ID)
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for the cart and place the order",
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

		orch := checkout.NewOrchestrator(a.client, a.client,
			terminalWidget{client: a.client, in: bufio.NewReader(os.Stdin)}, sync, a.log)

		result, err := orch.Run(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}
		fmt.Printf("Order placed, charged %s\n", cents(result.AmountCents))
		if result.CartClearDeferred {
			fmt.Println("Note: the server-side cart could not be cleared yet; it will catch up shortly")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
