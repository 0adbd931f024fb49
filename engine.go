package ghostconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Renderer is the capability the orchestrator depends on: synchronously
// render the argument vector's sources to its destination. Alternate
// engines substitute wholesale through this interface.
type Renderer interface {
	Invoke(ctx context.Context, args []string) error
}

// Runner executes one engine process and reports its signed status code
// along with captured stderr. It exists so tests can fake the engine.
type Runner interface {
	Run(ctx context.Context, args []string) (status int, stderr string, err error)
}

// Compile-time interface checks.
var (
	_ Renderer = (*ghostscriptEngine)(nil)
	_ Runner   = (*execRunner)(nil)
)

// benignStatus is the one negative engine status treated as success: the
// engine's quit code, which surfaces after the pdfwrite optimization pass
// even though the output was written.
const benignStatus = -101

// engineGuard serializes engine invocations process-wide. The engine is not
// safe for concurrent invocation within one process.
var engineGuard sync.Mutex

// ghostscriptEngine implements Renderer over a Ghostscript subprocess.
type ghostscriptEngine struct {
	runner Runner
	guard  *sync.Mutex
}

// newGhostscriptEngine creates the default engine using the process-wide
// guard and a subprocess runner.
func newGhostscriptEngine() *ghostscriptEngine {
	return &ghostscriptEngine{
		runner: &execRunner{},
		guard:  &engineGuard,
	}
}

// Invoke runs the engine with the argument vector inside the guard's
// mutual-exclusion region. Any status other than 0 or the benign quit code
// is a failure carrying the numeric code.
func (e *ghostscriptEngine) Invoke(ctx context.Context, args []string) error {
	e.guard.Lock()
	defer e.guard.Unlock()

	status, stderr, err := e.runner.Run(ctx, args)
	if err != nil {
		return err
	}
	if status != 0 && status != benignStatus {
		detail := strings.TrimSpace(stderr)
		if detail != "" {
			return fmt.Errorf("%w: status %d: %s", ErrEngineFailure, status, detail)
		}
		return fmt.Errorf("%w: status %d", ErrEngineFailure, status)
	}
	return nil
}

// execRunner implements Runner using os/exec.
type execRunner struct {
	// bin overrides binary resolution (tests). Empty means resolve from
	// GHOSTCONV_GS_BIN or PATH.
	bin string
}

// gsBinary resolves the Ghostscript binary name.
func gsBinary() string {
	if bin := os.Getenv("GHOSTCONV_GS_BIN"); bin != "" {
		return bin
	}
	if runtime.GOOS == "windows" {
		return "gswin64c"
	}
	return "gs"
}

// Run executes one engine process and waits for it. The process is always
// reaped, error or not. Ghostscript's internal error codes are negative and
// reach us truncated to a byte in the exit status, so the status is
// sign-extended to recover them (-101 arrives as raw 155).
func (r *execRunner) Run(ctx context.Context, args []string) (int, string, error) {
	bin := r.bin
	if bin == "" {
		bin = gsBinary()
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrEngineNotFound, bin)
	}

	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- args built internally
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err == nil {
		return 0, stderr.String(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return int(int8(exitErr.ExitCode())), stderr.String(), nil
	}
	return 0, stderr.String(), fmt.Errorf("running engine: %w", err)
}
