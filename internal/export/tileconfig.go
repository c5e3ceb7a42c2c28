// Package export writes tile plans to the files downstream tools consume:
// the TileConfiguration position lists read by the stitching pipeline, plus
// PDF previews and xlsx listings for operators.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/tilescan/internal/model"
)

// The two position-list files written per region. Both hold identical values:
// the first is later transformed into physical stage coordinates by the
// acquisition driver, the second is kept untransformed for image
// re-composition in the original viewing space.
const (
	TileConfigurationFile   = "TileConfiguration.txt"
	TileConfigurationQPFile = "TileConfiguration_QP.txt"
)

// WriteTileConfigurations writes both position-list files for every plan in
// the result, creating parent directories as needed. Existing files are
// overwritten. Each file is written in one call from a fully rendered
// listing, so a failed write never leaves a partial listing behind.
func WriteTileConfigurations(result model.PlanResult) error {
	for _, plan := range result.Plans {
		if err := WritePlan(plan); err != nil {
			return err
		}
	}
	return nil
}

// WritePlan writes the two position-list files for one plan into its output
// directory. Both files are rendered from the same in-memory listing; they
// can never diverge in ordering or indices.
func WritePlan(plan model.TilePlan) error {
	if plan.OutputDir == "" {
		return fmt.Errorf("plan %q has no output directory", plan.RegionName)
	}
	if err := os.MkdirAll(plan.OutputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory for region %q: %w", plan.RegionName, err)
	}

	listing := RenderTileConfiguration(plan)
	for _, name := range []string{TileConfigurationFile, TileConfigurationQPFile} {
		path := filepath.Join(plan.OutputDir, name)
		if err := os.WriteFile(path, listing, 0644); err != nil {
			return fmt.Errorf("cannot write %s for region %q: %w", name, plan.RegionName, err)
		}
	}
	return nil
}

// RenderTileConfiguration renders the position listing for one plan: a
// dimensionality header followed by one line per kept tile naming the frame
// file the acquisition will produce and its center coordinate.
func RenderTileConfiguration(plan model.TilePlan) []byte {
	var b strings.Builder
	b.WriteString("dim = 2\n")
	for _, t := range plan.Tiles {
		fmt.Fprintf(&b, "%d.tif; ; (%.3f, %.3f)\n", t.Index, t.X, t.Y)
	}
	return []byte(b.String())
}
