// tilescan — stage tile-scan planner
//
// Plans rectangular acquisition frames covering a scan region in serpentine
// order and writes the TileConfiguration position lists the stitching
// pipeline consumes.
//
// Examples:
//
//	tilescan -rect 0,0,5000,4000 -frame 665.6x665.6 -overlap 10 -out ./scan
//	tilescan -regions slide.dxf -profile "Brightfield 20x" -buffer -out ./scan -pdf plan.pdf
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/tilescan/internal/export"
	"github.com/piwi3910/tilescan/internal/importer"
	"github.com/piwi3910/tilescan/internal/model"
	"github.com/piwi3910/tilescan/internal/planner"
	"github.com/piwi3910/tilescan/internal/project"
)

func main() {
	var (
		rectFlag    = flag.String("rect", "", "rectangular region as minX,minY,maxX,maxY")
		regionsFlag = flag.String("regions", "", "region boundary file (.dxf, .csv, .xlsx)")
		frameFlag   = flag.String("frame", "", "frame size as WIDTHxHEIGHT")
		profileFlag = flag.String("profile", "", "scan profile name resolving the frame size")
		overlap     = flag.Float64("overlap", 10, "overlap between adjacent frames, percent")
		invertX     = flag.Bool("invert-x", false, "stage X axis runs opposite to image X")
		invertY     = flag.Bool("invert-y", false, "stage Y axis runs opposite to image Y")
		buffer      = flag.Bool("buffer", false, "expand polygon bounds by half a frame before gridding")
		outRoot     = flag.String("out", ".", "output root directory")
		pdfPath     = flag.String("pdf", "", "also write a plan preview PDF to this path")
		xlsxPath    = flag.String("xlsx", "", "also write a tile listing workbook to this path")
	)
	flag.Parse()

	frame, err := resolveFrame(*frameFlag, *profileFlag)
	if err != nil {
		fatal(err)
	}

	region, err := resolveRegion(*rectFlag, *regionsFlag)
	if err != nil {
		fatal(err)
	}

	settings := model.PlanSettings{
		OverlapPercent: *overlap,
		InvertX:        *invertX,
		InvertY:        *invertY,
		Buffer:         *buffer,
	}

	result, err := planner.New(settings).Plan(region, frame, *outRoot)
	if err != nil {
		fatal(err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if err := export.WriteTileConfigurations(result); err != nil {
		fatal(err)
	}
	for _, plan := range result.Plans {
		fmt.Printf("%s: %d tiles -> %s\n", plan.RegionName, len(plan.Tiles), plan.OutputDir)
	}

	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, result, frame, settings); err != nil {
			fatal(err)
		}
	}
	if *xlsxPath != "" {
		if err := export.ExportExcel(*xlsxPath, result); err != nil {
			fatal(err)
		}
	}
}

// resolveFrame determines the frame size from either an explicit WxH value or
// a scan profile name (custom profiles take precedence over built-ins).
func resolveFrame(frameSpec, profileName string) (model.Frame, error) {
	switch {
	case frameSpec != "":
		parts := strings.SplitN(frameSpec, "x", 2)
		if len(parts) != 2 {
			return model.Frame{}, fmt.Errorf("invalid -frame value %q, expected WIDTHxHEIGHT", frameSpec)
		}
		w, errW := strconv.ParseFloat(parts[0], 64)
		h, errH := strconv.ParseFloat(parts[1], 64)
		if errW != nil || errH != nil {
			return model.Frame{}, fmt.Errorf("invalid -frame value %q, expected WIDTHxHEIGHT", frameSpec)
		}
		return model.Frame{Width: w, Height: h}, nil

	case profileName != "":
		custom, err := project.LoadProfilesFromDefault()
		if err != nil {
			return model.Frame{}, fmt.Errorf("cannot load scan profiles: %w", err)
		}
		profile, ok := model.ProfileByName(custom, profileName)
		if !ok {
			return model.Frame{}, fmt.Errorf("unknown scan profile %q", profileName)
		}
		return profile.Frame(), nil

	default:
		return model.Frame{}, fmt.Errorf("either -frame or -profile is required")
	}
}

// resolveRegion builds the region from either rectangle bounds or a boundary
// file.
func resolveRegion(rectSpec, regionsPath string) (model.Region, error) {
	switch {
	case rectSpec != "":
		parts := strings.Split(rectSpec, ",")
		if len(parts) != 4 {
			return model.Region{}, fmt.Errorf("invalid -rect value %q, expected minX,minY,maxX,maxY", rectSpec)
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return model.Region{}, fmt.Errorf("invalid -rect value %q: %v", rectSpec, err)
			}
			vals[i] = v
		}
		return model.RectRegion(vals[0], vals[1], vals[2], vals[3]), nil

	case regionsPath != "":
		var imported importer.ImportResult
		switch strings.ToLower(filepath.Ext(regionsPath)) {
		case ".dxf":
			imported = importer.ImportDXF(regionsPath)
		case ".csv", ".txt":
			imported = importer.ImportCSV(regionsPath)
		case ".xlsx", ".xls":
			imported = importer.ImportExcel(regionsPath)
		default:
			return model.Region{}, fmt.Errorf("unsupported region file type %q", filepath.Ext(regionsPath))
		}
		for _, w := range imported.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if len(imported.Errors) > 0 {
			return model.Region{}, fmt.Errorf("region import failed: %s", strings.Join(imported.Errors, "; "))
		}
		return model.PolygonRegion(imported.Regions...), nil

	default:
		return model.Region{}, fmt.Errorf("either -rect or -regions is required")
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "tilescan: %v\n", err)
	os.Exit(1)
}
