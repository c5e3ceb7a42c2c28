// Package project persists user-level planning state: custom scan profiles
// mapping a hardware configuration to its acquisition frame geometry.
package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/tilescan/internal/model"
)

// DefaultProfilesDir returns the default directory for storing custom
// scan profiles.
func DefaultProfilesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tilescan"), nil
}

// DefaultProfilesPath returns the default file path for custom scan profiles.
func DefaultProfilesPath() (string, error) {
	dir, err := DefaultProfilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.json"), nil
}

// SaveProfiles saves custom scan profiles to a JSON file.
// It creates parent directories if they do not exist.
func SaveProfiles(path string, profiles []model.ScanProfile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProfiles loads custom scan profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadProfiles(path string) ([]model.ScanProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ScanProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.ScanProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}

	// Loaded profiles are user overrides, never built-ins
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// LoadProfilesFromDefault loads custom scan profiles from the default path.
func LoadProfilesFromDefault() ([]model.ScanProfile, error) {
	path, err := DefaultProfilesPath()
	if err != nil {
		return nil, err
	}
	return LoadProfiles(path)
}

// SaveProfilesToDefault saves custom scan profiles to the default path.
func SaveProfilesToDefault(profiles []model.ScanProfile) error {
	path, err := DefaultProfilesPath()
	if err != nil {
		return err
	}
	return SaveProfiles(path, profiles)
}

// ExportProfile exports a single scan profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.ScanProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single scan profile from a JSON file.
func ImportProfile(path string) (model.ScanProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ScanProfile{}, err
	}

	var profile model.ScanProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.ScanProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.ScanProfile{}, errors.New("imported profile has no name")
	}
	if profile.FrameWidth <= 0 || profile.FrameHeight <= 0 {
		return model.ScanProfile{}, errors.New("imported profile has no frame dimensions")
	}
	return profile, nil
}
