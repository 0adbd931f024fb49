package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

// ErrMissingDependency reports an unavailable external engine.
var ErrMissingDependency = errors.New("missing external dependency")

// runDoctor checks the external engines the converter depends on.
func runDoctor(deps *Dependencies) error {
	ok := true

	gs := os.Getenv("GHOSTCONV_GS_BIN")
	if gs == "" {
		gs = "gs"
		if runtime.GOOS == "windows" {
			gs = "gswin64c"
		}
	}
	if path, err := deps.LookPath(gs); err == nil {
		fmt.Fprintf(deps.Stdout, "ghostscript: %s\n", path)
	} else {
		ok = false
		fmt.Fprintf(deps.Stdout, "ghostscript: NOT FOUND (%q; install it or set GHOSTCONV_GS_BIN)\n", gs)
	}

	// Chromium is optional: only SVG/HTML/Markdown inputs need it, and rod
	// downloads a managed browser when none is configured.
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if path, err := deps.LookPath(bin); err == nil {
			fmt.Fprintf(deps.Stdout, "chromium: %s\n", path)
		} else {
			fmt.Fprintf(deps.Stdout, "chromium: ROD_BROWSER_BIN=%q not found\n", bin)
		}
	} else {
		fmt.Fprintln(deps.Stdout, "chromium: managed by rod (downloaded on first SVG/HTML/Markdown input)")
	}

	if !ok {
		return fmt.Errorf("%w: ghostscript", ErrMissingDependency)
	}
	fmt.Fprintln(deps.Stdout, "All required dependencies available.")
	return nil
}
