package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	classifyOrigin string
	classifyRecord bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [images...]",
	Short: "Classify one or more image files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := source.ParseOrigin(classifyOrigin)
		if err != nil {
			return err
		}

		classifier, cleanup, err := newClassifier(cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to initialize model: %w", err)
		}
		defer cleanup()

		var store *history.Store
		if classifyRecord {
			store, err = history.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()
		}

		a := newApp(cfg, appLog, classifier, store)
		results := classifyFiles(a, args, origin)
		printResults(results)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyOrigin, "origin", string(source.OriginGallery), "Treat images as coming from 'camera' (center crop) or 'gallery'")
	classifyCmd.Flags().BoolVar(&classifyRecord, "record", false, "Store results in the history database")
	rootCmd.AddCommand(classifyCmd)
}

type fileResult struct {
	Path       string
	Prediction *model.Prediction
	Err        error
}

// classifyFiles loads and classifies each file in turn. A file that cannot
// be opened is reported without classifying the previously loaded image.
func classifyFiles(a *app.App, paths []string, origin source.Origin) []fileResult {
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Classifying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	results := make([]fileResult, 0, len(paths))
	for _, path := range paths {
		res := fileResult{Path: path}
		img, err := source.Open(path)
		if err != nil {
			res.Err = err
		} else {
			a.Load(img, origin)
			res.Prediction, res.Err = a.Classify()
		}
		results = append(results, res)
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)
	return results
}

func printResults(results []fileResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tCLASS\tCONFIDENCE\tCOLOR")
	fmt.Fprintln(w, "----\t-----\t----------\t-----")

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t%s\n", r.Path, userMessage(r.Err))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\n", r.Path, r.Prediction.Class, r.Prediction.Confidence, r.Prediction.Color)
	}
	w.Flush()
}
