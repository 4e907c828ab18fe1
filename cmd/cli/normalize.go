package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saveit/shopping-service/internal/normalize"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize <ingredient>...",
	Short: "Show the search term an ingredient name simplifies to",
	Long: `Show how recipe ingredient names are simplified into search terms.
Pantry staples like water and salt are marked as skipped. Runs entirely
offline; no configuration needed.`,
	Example: `  shopping-service normalize "2 cups all-purpose flour" "fresh basil leaves"
  shopping-service normalize "warm water"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tSEARCH TERM")
	for _, name := range args {
		term, skip := normalize.Simplify(name)
		if skip {
			fmt.Fprintf(w, "%s\t(skipped: pantry staple)\n", name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", name, term)
	}
	return w.Flush()
}
