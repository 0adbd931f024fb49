package ghostconv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/ghostware/go-ghostconv/internal/fileutil"
)

// collisionKind classifies how a run deals with a pre-existing output file.
type collisionKind int

const (
	// collisionProceed: no conflict, or overwrite was requested.
	collisionProceed collisionKind = iota

	// collisionRenamed: the output path was rewritten to a free slot.
	collisionRenamed

	// collisionEscaped: the existing file was copied into the working area
	// for a later merge.
	collisionEscaped
)

// collisionOutcome is the resolver's decision. At most one escaped copy
// exists per run.
type collisionOutcome struct {
	kind collisionKind

	// newPath is the rewritten output path under collisionRenamed.
	newPath string

	// escapedCopy is the working-area copy of the pre-existing output under
	// collisionEscaped.
	escapedCopy string
}

// renameProbeLimit bounds the (n) suffix search.
const renameProbeLimit = 9999

// resolveCollision applies the request's collision policy against the
// current filesystem state. Under PolicyRename it mutates req.OutputPath —
// the single permitted mutation of a request after staging begins.
//
// Merge policies only apply to PDF output; for any other format a merge
// request degrades to proceed. That is deliberate: there is no page-level
// merge for raster or PostScript artifacts.
func resolveCollision(req *Request, work *workArea) (collisionOutcome, error) {
	exists := outputExists(req.OutputPath, req.Format)

	switch req.Policy {
	case PolicyRename:
		if !exists {
			return collisionOutcome{kind: collisionProceed}, nil
		}
		candidate, err := freeRenameSlot(req.OutputPath, req.Format, renameProbeLimit)
		if err != nil {
			return collisionOutcome{}, err
		}
		req.OutputPath = candidate
		return collisionOutcome{kind: collisionRenamed, newPath: candidate}, nil

	case PolicyMergeHead, PolicyMergeTail:
		if req.Format != FormatPDF || !exists {
			return collisionOutcome{kind: collisionProceed}, nil
		}
		escaped := work.path("escape-" + ulid.Make().String() + ".pdf")
		if err := fileutil.CopyFile(req.OutputPath, escaped); err != nil {
			return collisionOutcome{}, fmt.Errorf("escaping existing output: %w", err)
		}
		return collisionOutcome{kind: collisionEscaped, escapedCopy: escaped}, nil

	default: // PolicyOverwrite
		return collisionOutcome{kind: collisionProceed}, nil
	}
}

// outputExists reports whether a prior run left output at path. For formats
// the engine may paginate, a prior multi-page run produced <name>-001<ext>
// instead of the exact requested name, so that variant is probed too.
func outputExists(path string, format Format) bool {
	if fileutil.FileExists(path) {
		return true
	}
	return format.paginates() && fileutil.FileExists(numberedPath(path, 1))
}

// numberedPath returns the <dir>/<base>-NNN<ext> page name for path.
func numberedPath(path string, n int) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(dir, fmt.Sprintf("%s-%03d%s", base, n, ext))
}

// freeRenameSlot probes <dir>/<base>(n)<ext> for n = 2..limit and returns
// the first candidate with no existing output (including the -001 variant
// for paginating formats). Exhausting the range is a reportable failure,
// not a silent fallback.
func freeRenameSlot(path string, format Format, limit int) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	for n := 2; n <= limit; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, n, ext))
		if !outputExists(candidate, format) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (probed 2-%d)", ErrNoFreeSlot, path, limit)
}
