package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "ShopEasy storefront and admin console",
	Long: `storefront serves the ShopEasy shop and its admin console as
server-rendered pages on top of the shop's REST backend.

Run "storefront serve" to start the web server, or "storefront products"
to try catalog filters from the terminal.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "storefront", version)
		},
	})
}
