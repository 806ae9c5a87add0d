package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecosphere-platform/ecosphere/internal/infra/catalog"
)

func init() {
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(rewardsCmd)
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "List the offset marketplace",
	RunE:  runMarket,
}

func runMarket(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOFFSET (KG)\tPRICE\tDESCRIPTION")
	for _, e := range catalog.DefaultMarketplace().List() {
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%s\n", e.Name, e.OffsetValue, e.Price, e.Description)
	}
	return w.Flush()
}

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "List the SuperCoin redemption options",
	RunE:  runRewards,
}

func runRewards(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPTION\tCOIN COST")
	for _, o := range catalog.DefaultRedemptionCatalog().List() {
		fmt.Fprintf(w, "%s\t%d\n", o.Name, o.CoinCost)
	}
	return w.Flush()
}
