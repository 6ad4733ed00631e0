package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Subscription payments microservice",
	Long:  "A payment-gateway microservice that abstracts Razorpay and PineLabs behind one provider contract and derives subscriptions from verified payment webhooks.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
