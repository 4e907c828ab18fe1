package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saveit/shopping-service/internal/platform"
)

var shopOutput string

// shopCmd represents the shop command
var shopCmd = &cobra.Command{
	Use:   "shop <recipe>",
	Short: "Build a shopping cart for a recipe",
	Long: `Resolve a recipe name into its ingredient list, search every supported
platform for each ingredient, pick the best product per platform, and print
the resulting cart with the best overall platform.`,
	Example: `  shopping-service shop "chicken biryani"
  shopping-service shop "palak paneer" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runShop,
}

func init() {
	rootCmd.AddCommand(shopCmd)

	shopCmd.Flags().StringVar(&shopOutput, "output", "table", "Output format: table or json")
}

func runShop(cmd *cobra.Command, args []string) error {
	orchestrator, err := buildOrchestrator()
	if err != nil {
		return err
	}

	logger.Info().Str("recipe", args[0]).Msg("Shopping for recipe")
	result, err := orchestrator.Shop(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("shop failed: %w", err)
	}

	if shopOutput == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	costs := platform.DefaultCostTable()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, p := range platform.All() {
		items := result.Items[p]
		if len(items) == 0 {
			continue
		}
		effective := result.EffectiveCostFor(p, costs)
		fmt.Fprintf(w, "%s\t(%d items, ₹%.2f + ₹%.2f fees)\n", p, len(items), result.TotalByPlatform[p], effective.DeliveryFee+effective.PlatformFee)
		for _, item := range items {
			fmt.Fprintf(w, "  %s\t%s\t₹%.2f\n", item.Name, item.Quantity, item.Price)
		}
	}
	w.Flush()

	fmt.Println()
	fmt.Println(result.Message)
	return nil
}
