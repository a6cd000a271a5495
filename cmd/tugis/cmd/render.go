package cmd

import (
	"bytes"
	"fmt"
	"os"

	"tugisline/internal/drawing/mapper"

	"github.com/spf13/cobra"
)

var (
	renderOutput string
	renderWidth  int
	renderHeight int
	renderGrid   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Rasterize a drawing document to PNG",
	Long: `Draw the document with its saved zoom and pan: background, grid and shapes.

Examples:
  tugis render plan.json                       # writes plan.png
  tugis render plan.json -o out.png --grid=false`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG path (default: <input>.png)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 1280, "canvas width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 800, "canvas height in pixels")
	renderCmd.Flags().BoolVar(&renderGrid, "grid", true, "draw the grid")
}

func runRender(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := mapper.NewRasterizer().RenderPNG(&buf, frameFor(doc, renderGrid), renderWidth, renderHeight); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path := renderOutput
	if path == "" {
		path = outputPath(args[0], ".png")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d objects)\n", path, renderWidth, renderHeight, len(doc.Objects))
	return nil
}
