package ghostconv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ghostware/go-ghostconv/internal/fileutil"
)

// consolidate moves the engine's raw output out of the working area to the
// final destination. Exactly one output file is moved to destPath directly;
// several (a paginated raster run) are renumbered to <name>-NNN<ext>,
// skipping .ps intermediates without consuming an index for them. Any file
// already at a chosen destination has been cleared for removal by the
// collision resolver and is deleted before the move.
//
// Returns the final artifact paths. When a move fails partway through a
// multi-page set, already-placed pages are left where they are and the
// error reports how far consolidation got.
func consolidate(work *workArea, destPath string) ([]string, error) {
	names, err := work.outputs()
	if err != nil {
		return nil, err
	}

	switch len(names) {
	case 0:
		return nil, ErrNoEngineOutput

	case 1:
		if err := fileutil.RemoveIfExists(destPath); err != nil {
			return nil, err
		}
		if err := fileutil.MoveFile(work.outPath(names[0]), destPath); err != nil {
			return nil, fmt.Errorf("placing output: %w", err)
		}
		return []string{destPath}, nil
	}

	var placed []string
	index := 0
	for _, name := range names {
		// .ps files are intermediate artifacts, never final output.
		if strings.EqualFold(filepath.Ext(name), ".ps") {
			continue
		}
		index++
		target := numberedPath(destPath, index)
		if err := fileutil.RemoveIfExists(target); err != nil {
			return placed, err
		}
		if err := fileutil.MoveFile(work.outPath(name), target); err != nil {
			return placed, fmt.Errorf("placing page %d (%d placed): %w", index, len(placed), err)
		}
		placed = append(placed, target)
	}

	if len(placed) == 0 {
		// Every produced file was an intermediate.
		return nil, ErrNoEngineOutput
	}
	return placed, nil
}
