package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent classifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		records, err := store.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No classifications recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCLASS\tCONFIDENCE\tORIGIN\tCREATED")
		fmt.Fprintln(w, "--\t-----\t----------\t------\t-------")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%.4f\t%s\t%s\n", r.ID, r.Class, r.Confidence, r.Origin, r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		w.Flush()

		counts, err := store.Count()
		if err != nil {
			return fmt.Errorf("failed to count history: %w", err)
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println()
		for _, name := range names {
			fmt.Printf("%s: %d\n", name, counts[name])
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
	rootCmd.AddCommand(historyCmd)
}
