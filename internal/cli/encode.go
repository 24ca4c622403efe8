package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Brownie44l1/photovocalizer/internal/encoder"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/spf13/cobra"
)

var (
	encodeOut       string
	encodeOrigin    string
	encodeNormalize bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Write the model input tensor of an image as raw float32 values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := source.ParseOrigin(encodeOrigin)
		if err != nil {
			return err
		}
		normalize := cfg.NormalizeInput
		if cmd.Flags().Changed("normalize") {
			normalize = encodeNormalize
		}

		out := io.Writer(os.Stdout)
		if encodeOut != "" && encodeOut != "-" {
			f, err := os.Create(encodeOut)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			defer f.Close()
			out = f
		}

		n, err := encodeFile(out, args[0], origin, normalize)
		if err != nil {
			return err
		}
		appLog.Info("Wrote %d bytes", n)
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "Output file (default stdout)")
	encodeCmd.Flags().StringVar(&encodeOrigin, "origin", string(source.OriginGallery), "Treat the image as coming from 'camera' (center crop) or 'gallery'")
	encodeCmd.Flags().BoolVar(&encodeNormalize, "normalize", false, "Scale components to 0..1 (default from NORMALIZE_INPUT)")
	rootCmd.AddCommand(encodeCmd)
}

// encodeFile prepares and encodes the image at path and writes the tensor
// bytes to w.
func encodeFile(w io.Writer, path string, origin source.Origin, normalize bool) (int, error) {
	img, err := source.Open(path)
	if err != nil {
		return 0, err
	}

	tensor, err := encoder.New(normalize).Encode(encoder.Prepare(img, origin == source.OriginCamera))
	if err != nil {
		return 0, err
	}
	return w.Write(tensor.Bytes())
}
