package ghostconv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/ghostware/go-ghostconv/internal/fileutil"
)

// workArea is the ephemeral directory scoped to one conversion run. It owns
// staged input copies and the engine's raw outputs until consolidation.
// Inputs are staged under ASCII-safe names so non-ASCII source paths never
// reach the engine.
type workArea struct {
	dir string
}

// stageWorkArea creates a fresh working area under root (os.TempDir when
// empty). Anything stale at the resolved path is removed first: the
// directory must not exist before creation.
func stageWorkArea(root string) (*workArea, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "ghostconv-"+ulid.Make().String())

	if info, err := os.Stat(dir); err == nil {
		if info.IsDir() {
			if err := os.RemoveAll(dir); err != nil {
				return nil, fmt.Errorf("%w: removing stale directory: %v", ErrStaging, err)
			}
		} else {
			if err := os.Remove(dir); err != nil {
				return nil, fmt.Errorf("%w: removing stale file: %v", ErrStaging, err)
			}
		}
	}

	// Engine output goes to a dedicated subdirectory so consolidation never
	// confuses staged inputs or escaped copies with produced pages.
	if err := os.MkdirAll(filepath.Join(dir, "out"), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaging, err)
	}
	return &workArea{dir: dir}, nil
}

// destroy recursively removes the working area. Safe to call more than once
// and on a nil area; destruction must run on every exit path of a run.
func (w *workArea) destroy() {
	if w == nil || w.dir == "" {
		return
	}
	_ = os.RemoveAll(w.dir)
	w.dir = ""
}

// path returns the named file's path inside the area.
func (w *workArea) path(name string) string {
	return filepath.Join(w.dir, name)
}

// stageInput copies a source file into the area under a numbered,
// ASCII-safe name, keeping the original extension.
func (w *workArea) stageInput(src string, index int) (string, error) {
	dst := w.path(fmt.Sprintf("input-%03d%s", index, filepath.Ext(src)))
	if err := fileutil.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStaging, err)
	}
	return dst, nil
}

// outPath returns the named file's path inside the engine output directory.
func (w *workArea) outPath(name string) string {
	return filepath.Join(w.dir, "out", name)
}

// outputs lists the engine's output files, sorted by name for deterministic
// page numbering.
func (w *workArea) outputs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.dir, "out"))
	if err != nil {
		return nil, fmt.Errorf("listing working area output: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
