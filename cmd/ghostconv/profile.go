package main

import (
	"fmt"

	"github.com/ghostware/go-ghostconv/internal/config"
)

// runProfile prints a profile as YAML: the named one when given, otherwise
// the built-in defaults. The output is a valid profile file, so it doubles
// as a starting point for a new one.
func runProfile(args []string, deps *Dependencies) error {
	prof := config.DefaultProfile()
	if len(args) > 0 {
		loaded, err := config.LoadProfile(args[0])
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		prof = loaded
	}

	data, err := prof.Marshal()
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}
	_, err = deps.Stdout.Write(data)
	return err
}
