// Package config loads named conversion profiles from YAML files.
// A profile is a persisted bundle of conversion settings the CLI resolves
// into a conversion request; persistence management itself (editing,
// registries, GUIs) is out of scope.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghostware/go-ghostconv/internal/yamlutil"
)

// Sentinel errors for profile operations.
var (
	ErrProfileNotFound  = errors.New("profile file not found")
	ErrEmptyProfileName = errors.New("profile name cannot be empty")
	ErrProfileParse     = errors.New("failed to parse profile")
)

// Accepted enum values. Kept as strings here; the CLI maps them onto the
// library's typed constants.
var (
	formats     = []string{"pdf", "ps", "eps", "png", "jpeg", "bmp", "tiff"}
	pdfProfiles = []string{"", "default", "a", "x"}
	pdfVersions = []string{"", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7"}
	filters     = []string{"", "flate", "dct", "lzw"}
	downsamples = []string{"", "none", "average", "bicubic", "subsample"}
	collisions  = []string{"", "overwrite", "rename", "merge-head", "merge-tail"}
)

// Profile holds one named conversion configuration.
type Profile struct {
	Format      string         `yaml:"format"`
	PDF         PDFConfig      `yaml:"pdf"`
	Resolution  int            `yaml:"resolution"`
	Grayscale   bool           `yaml:"grayscale"`
	EmbedFonts  bool           `yaml:"embedFonts"`
	Rotate      bool           `yaml:"rotate"`
	Compression string         `yaml:"compression"`
	Downsample  string         `yaml:"downsample"`
	OnCollision string         `yaml:"onCollision"`
	DeleteInput bool           `yaml:"deleteInput"`
	Output      OutputConfig   `yaml:"output"`
	Metadata    MetadataConfig `yaml:"metadata"`
	Security    SecurityConfig `yaml:"security"`
}

// PDFConfig selects the PDF sub-profile and compatibility level.
type PDFConfig struct {
	Profile string `yaml:"profile"` // "default", "a", "x"
	Version string `yaml:"version"` // "1.2" .. "1.7"
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// MetadataConfig defines PDF document information.
type MetadataConfig struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Subject  string `yaml:"subject"`
	Keywords string `yaml:"keywords"`
	Creator  string `yaml:"creator"`
}

// SecurityConfig defines PDF encryption options.
type SecurityConfig struct {
	Enabled       bool   `yaml:"enabled"`
	OwnerPassword string `yaml:"ownerPassword"`
	UserPassword  string `yaml:"userPassword"`
	AllowPrint    bool   `yaml:"allowPrint"`
	AllowCopy     bool   `yaml:"allowCopy"`
	AllowModify   bool   `yaml:"allowModify"`
}

// DefaultProfile returns a neutral PDF profile.
func DefaultProfile() *Profile {
	return &Profile{
		Format:      "pdf",
		Resolution:  150,
		EmbedFonts:  true,
		Compression: "flate",
		Downsample:  "none",
		OnCollision: "overwrite",
	}
}

// Marshal renders the profile as YAML, suitable as a starting point for a
// profile file.
func (p *Profile) Marshal() ([]byte, error) {
	return yamlutil.Marshal(p)
}

// Validate checks enum fields against their accepted values.
func (p *Profile) Validate() error {
	if err := validateEnum("format", p.Format, formats); err != nil {
		return err
	}
	if err := validateEnum("pdf.profile", p.PDF.Profile, pdfProfiles); err != nil {
		return err
	}
	if err := validateEnum("pdf.version", p.PDF.Version, pdfVersions); err != nil {
		return err
	}
	if err := validateEnum("compression", p.Compression, filters); err != nil {
		return err
	}
	if err := validateEnum("downsample", p.Downsample, downsamples); err != nil {
		return err
	}
	if err := validateEnum("onCollision", p.OnCollision, collisions); err != nil {
		return err
	}
	if p.Resolution < 0 || p.Resolution > 2400 {
		return fmt.Errorf("resolution: must be 1-2400, got %d", p.Resolution)
	}
	return nil
}

// validateEnum checks a field value against accepted values
// (case-insensitive).
func validateEnum(field, value string, accepted []string) error {
	for _, a := range accepted {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%s: invalid value %q (must be one of %s)",
		field, value, strings.Join(accepted, ", "))
}

// LoadProfile loads a conversion profile from a file path or profile name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a profile name and searched in standard
// locations. Returns an error if the file is not found (no silent fallback).
func LoadProfile(nameOrPath string) (*Profile, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyProfileName
	}

	var profilePath string
	var err error

	if isFilePath(nameOrPath) {
		profilePath = nameOrPath
	} else {
		profilePath, err = resolveProfilePath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(profilePath) // #nosec G304 -- profile path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profilePath)
		}
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	prof := DefaultProfile()
	if err := yamlutil.UnmarshalStrict(data, prof); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileParse, err)
	}

	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return prof, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveProfilePath searches for a profile file by name in standard
// locations. Tries extensions in order: .yaml, .yml.
// Tries locations in order: current directory, <user config>/ghostconv/.
func resolveProfilePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "ghostconv", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrProfileNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
