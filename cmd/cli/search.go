package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
)

var (
	searchPlatforms []string
	searchOutput    string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <ingredient>...",
	Short: "Search ingredient prices across platforms",
	Long: `Search one or more ingredients across quick-commerce platforms and print
the best product found per (ingredient, platform) pair. Pantry staples like
water and salt are skipped automatically.`,
	Example: `  shopping-service search paneer "basmati rice"
  shopping-service search onion --platforms zepto,blinkit
  shopping-service search tomato --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSliceVar(&searchPlatforms, "platforms", nil, "Platforms to search (default: Swiggy Instamart, Zepto, Blinkit)")
	searchCmd.Flags().StringVar(&searchOutput, "output", "table", "Output format: table or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	orchestrator, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ingredients := make([]recipe.Ingredient, len(args))
	for i, name := range args {
		ingredients[i] = recipe.Ingredient{Name: name, Quantity: "as needed"}
	}

	var platforms []platform.Platform
	for _, name := range searchPlatforms {
		platforms = append(platforms, platform.Classify(name))
	}

	result, err := orchestrator.SearchIngredientPrices(context.Background(), ingredients, platforms)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchOutput == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tPLATFORM\tQUANTITY\tPRICE")
	for _, product := range result.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t₹%.2f\n", product.Name, product.Platform, product.Quantity, product.Price)
	}
	w.Flush()

	fmt.Println()
	fmt.Println(result.Message)
	return nil
}
