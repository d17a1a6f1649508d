package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jovincart/storefront/orders"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show past orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		userID, err := a.requireUser("")
		if err != nil {
			return err
		}

		svc := orders.NewService(a.client)
		history, err := svc.History(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("fetch orders: %w", err)
		}
		if len(history) == 0 {
			fmt.Println("No orders yet")
			return nil
		}
		for _, o := range history {
			fmt.Printf("%s  %s  %d item(s)  %s\n",
				o.OrderID, o.CreatedAt.Local().Format("2006-01-02 15:04"), len(o.Items), cents(orders.Total(o)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}
