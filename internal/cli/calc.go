package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
	"github.com/ecosphere-platform/ecosphere/internal/domain"
)

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().Float64("electricity", 0, "Electricity use in kWh")
	calcCmd.Flags().Float64("gas", 0, "Natural gas use in therms")
	calcCmd.Flags().Float64("car", 0, "Car travel in km")
	calcCmd.Flags().Float64("transit", 0, "Public transit travel in km")
	calcCmd.Flags().Float64("flight", 0, "Flight distance in km")
	calcCmd.Flags().Float64("renewable", 0, "Renewable energy share in percent")
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a carbon footprint",
	Long: `Calculate a one-off carbon footprint from consumption quantities,
without touching any account. Factors and rates come from the config file.`,
	RunE: runCalc,
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var in emissions.Input
	in.ElectricityKWh, _ = cmd.Flags().GetFloat64("electricity")
	in.NaturalGasTherms, _ = cmd.Flags().GetFloat64("gas")
	in.CarKm, _ = cmd.Flags().GetFloat64("car")
	in.TransitKm, _ = cmd.Flags().GetFloat64("transit")
	in.FlightKm, _ = cmd.Flags().GetFloat64("flight")
	in.RenewablePercent, _ = cmd.Flags().GetFloat64("renewable")

	b, err := emissions.New(cfg.Emissions).Calculate(in)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Carbon footprint breakdown:")
	fmt.Fprintf(os.Stdout, "  Electricity:  %s\n", domain.FormatKg(b.Electricity))
	fmt.Fprintf(os.Stdout, "  Natural gas:  %s\n", domain.FormatKg(b.NaturalGas))
	fmt.Fprintf(os.Stdout, "  Car:          %s\n", domain.FormatKg(b.Car))
	fmt.Fprintf(os.Stdout, "  Transit:      %s\n", domain.FormatKg(b.Transit))
	fmt.Fprintf(os.Stdout, "  Flights:      %s\n", domain.FormatKg(b.Flight))
	fmt.Fprintf(os.Stdout, "  Total:        %s\n", domain.FormatKg(b.TotalKg))
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintf(os.Stdout, "Carbon tax at %.2f/kg: %.2f\n", cfg.Ledger.TaxRatePerKg, b.TotalKg*cfg.Ledger.TaxRatePerKg)
	fmt.Fprintf(os.Stdout, "Recommended trees to plant: %d\n", score.RecommendedTrees(b.TotalKg))
	fmt.Fprintf(os.Stdout, "Profile: %s\n", score.Personality(b.TotalKg))

	fmt.Fprintln(os.Stdout, "")
	for _, line := range score.New(cfg.Score).Advice(b.TotalKg) {
		fmt.Fprintf(os.Stdout, "  • %s\n", line)
	}
	return nil
}
