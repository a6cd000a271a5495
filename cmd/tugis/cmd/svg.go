package cmd

import (
	"fmt"
	"os"

	"tugisline/internal/drawing/mapper"

	"github.com/spf13/cobra"
)

var (
	svgOutput string
	svgWidth  int
	svgHeight int
	svgGrid   bool
)

var svgCmd = &cobra.Command{
	Use:   "svg <document.json>",
	Short: "Export a drawing document to SVG",
	Long: `Export the document to SVG. Without --output the SVG goes to stdout.

Examples:
  tugis svg plan.json > plan.svg
  tugis svg plan.json -o plan.svg --grid`,
	Args: cobra.ExactArgs(1),
	RunE: runSVG,
}

func init() {
	rootCmd.AddCommand(svgCmd)

	svgCmd.Flags().StringVarP(&svgOutput, "output", "o", "", "output SVG path (default: stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 1280, "canvas width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "canvas height")
	svgCmd.Flags().BoolVar(&svgGrid, "grid", false, "include the grid")
}

func runSVG(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	svg, err := mapper.NewRenderer().Render(frameFor(doc, svgGrid), float64(svgWidth), float64(svgHeight))
	if err != nil {
		return fmt.Errorf("svg: %w", err)
	}

	if svgOutput == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(svgOutput, []byte(svg), 0o644)
}
