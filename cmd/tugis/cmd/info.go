package cmd

import (
	"encoding/json"
	"fmt"

	"tugisline/internal/drawing/geometry"
	"tugisline/internal/drawing/models"

	"github.com/spf13/cobra"
)

var (
	outputJSON bool
)

// DocumentInfo - сводка документа для вывода.
type DocumentInfo struct {
	Version   string              `json:"version"`
	Objects   int                 `json:"objects"`
	ByKind    map[models.Kind]int `json:"by_kind"`
	Zoom      float64             `json:"zoom"`
	PanOffset models.Point        `json:"pan_offset"`
	Bounds    *BoundsInfo         `json:"bounds,omitempty"`
}

type BoundsInfo struct {
	Min models.Point `json:"min"`
	Max models.Point `json:"max"`
}

var infoCmd = &cobra.Command{
	Use:   "info <document.json>",
	Short: "Summarize a drawing document",
	Long: `Validate a drawing document and print its version, object counts,
saved view and the bounding box of all shapes.

Examples:
  tugis info plan.json
  tugis info --json plan.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	info := DocumentInfo{
		Version:   doc.Version,
		Objects:   len(doc.Objects),
		ByKind:    map[models.Kind]int{},
		Zoom:      doc.Zoom,
		PanOffset: doc.PanOffset,
	}
	for _, s := range doc.Objects {
		info.ByKind[s.Kind()]++
	}
	if lo, hi, ok := geometry.SceneBounds(doc.Objects); ok {
		info.Bounds = &BoundsInfo{Min: lo, Max: hi}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Version:  %s\n", info.Version)
	fmt.Fprintf(out, "Objects:  %d\n", info.Objects)
	for _, kind := range []models.Kind{models.KindLine, models.KindRectangle, models.KindCircle, models.KindPolygon} {
		if n := info.ByKind[kind]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", kind, n)
		}
	}
	fmt.Fprintf(out, "Zoom:     %d%%\n", int(doc.Zoom*100+0.5))
	fmt.Fprintf(out, "Pan:      (%g, %g)\n", doc.PanOffset.X, doc.PanOffset.Y)
	if info.Bounds != nil {
		fmt.Fprintf(out, "Bounds:   (%g, %g) - (%g, %g)\n",
			info.Bounds.Min.X, info.Bounds.Min.Y, info.Bounds.Max.X, info.Bounds.Max.Y)
	}
	return nil
}
