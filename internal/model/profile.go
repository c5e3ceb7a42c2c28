package model

import (
	"strings"

	"github.com/google/uuid"
)

// ScanProfile describes the acquisition frame geometry for one hardware
// configuration. Frame dimensions come from the microscope setup (camera chip
// size, objective magnification), so profiles are looked up by the
// modality/objective/detector triple rather than computed.
type ScanProfile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Modality    string  `json:"modality"`  // e.g. "Brightfield", "Fluorescence"
	Objective   string  `json:"objective"` // e.g. "10x", "20x"
	Detector    string  `json:"detector"`  // Camera identifier
	FrameWidth  float64 `json:"frame_width"`
	FrameHeight float64 `json:"frame_height"`
	PixelSize   float64 `json:"pixel_size"` // Physical size of one pixel, in µm
	IsBuiltIn   bool    `json:"-"`
}

// Frame returns the acquisition frame described by the profile.
func (p ScanProfile) Frame() Frame {
	return Frame{Width: p.FrameWidth, Height: p.FrameHeight}
}

// NewScanProfile creates a custom scan profile with a fresh short ID.
func NewScanProfile(name, modality, objective, detector string, frameW, frameH float64) ScanProfile {
	return ScanProfile{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Modality:    modality,
		Objective:   objective,
		Detector:    detector,
		FrameWidth:  frameW,
		FrameHeight: frameH,
	}
}

// Built-in scan profiles for common configurations. Frame dimensions are in
// µm for a 2048x2048 sensor at the respective magnification.
var BuiltInProfiles = []ScanProfile{
	{
		ID: "bf-4x", Name: "Brightfield 4x", Modality: "Brightfield",
		Objective: "4x", Detector: "ORCA-2048",
		FrameWidth: 3328.0, FrameHeight: 3328.0, PixelSize: 1.625, IsBuiltIn: true,
	},
	{
		ID: "bf-10x", Name: "Brightfield 10x", Modality: "Brightfield",
		Objective: "10x", Detector: "ORCA-2048",
		FrameWidth: 1331.2, FrameHeight: 1331.2, PixelSize: 0.65, IsBuiltIn: true,
	},
	{
		ID: "bf-20x", Name: "Brightfield 20x", Modality: "Brightfield",
		Objective: "20x", Detector: "ORCA-2048",
		FrameWidth: 665.6, FrameHeight: 665.6, PixelSize: 0.325, IsBuiltIn: true,
	},
	{
		ID: "fl-20x", Name: "Fluorescence 20x", Modality: "Fluorescence",
		Objective: "20x", Detector: "ORCA-2048",
		FrameWidth: 665.6, FrameHeight: 665.6, PixelSize: 0.325, IsBuiltIn: true,
	},
}

// FindProfile returns the first profile matching the modality, objective and
// detector triple, searching extra (custom) profiles before the built-ins.
// Empty fields match anything. The second return value is false when no
// profile matches.
func FindProfile(profiles []ScanProfile, modality, objective, detector string) (ScanProfile, bool) {
	match := func(have, want string) bool {
		return want == "" || strings.EqualFold(have, want)
	}
	for _, set := range [][]ScanProfile{profiles, BuiltInProfiles} {
		for _, p := range set {
			if match(p.Modality, modality) && match(p.Objective, objective) && match(p.Detector, detector) {
				return p, true
			}
		}
	}
	return ScanProfile{}, false
}

// ProfileByName returns the profile with the given name, searching extra
// (custom) profiles before the built-ins.
func ProfileByName(profiles []ScanProfile, name string) (ScanProfile, bool) {
	for _, set := range [][]ScanProfile{profiles, BuiltInProfiles} {
		for _, p := range set {
			if strings.EqualFold(p.Name, name) {
				return p, true
			}
		}
	}
	return ScanProfile{}, false
}
