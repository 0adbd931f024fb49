package ghostconv

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ghostware/go-ghostconv/internal/fileutil"
)

// Service orchestrates conversion runs. A Service is safe for concurrent
// use; each run owns an independent working area, and the engine guard
// serializes the actual engine invocations process-wide.
type Service struct {
	cfg           serviceConfig
	renderer      Renderer
	preRenderer   PreRenderer
	postProcessor PostProcessor
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithRenderer).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		s.renderer = newGhostscriptEngine()
	}
	if s.preRenderer == nil {
		s.preRenderer = newChromiumRenderer(s.cfg.timeout)
	}
	if s.postProcessor == nil {
		s.postProcessor = &enginePostProcessor{renderer: s.renderer}
	}
	return s
}

// Close releases resources (the pre-renderer's browser).
func (s *Service) Close() error {
	if s.preRenderer != nil {
		return s.preRenderer.Close()
	}
	return nil
}

// Convert runs one conversion. It never returns an error and never lets an
// internal fault escape: any failure is recorded in the result's diagnostic
// sequence and reported as Success=false. Diagnostics from a failed run are
// preserved.
func (s *Service) Convert(ctx context.Context, req Request) (res Result) {
	rec := &recorder{logger: s.cfg.logger}

	defer func() {
		if r := recover(); r != nil {
			rec.errorf("conversion failed: internal fault")
			rec.debugf("internal fault: %v\n%s", r, debug.Stack())
			res = Result{Success: false, Messages: rec.msgs}
		}
	}()

	outputs, err := s.run(ctx, &req, rec)
	if err != nil {
		rec.errorf("conversion failed: %v", err)
		rec.debugf("failure detail: %+v", err)
		return Result{Success: false, Messages: rec.msgs}
	}

	rec.infof("conversion finished: %d artifact(s)", len(outputs))
	return Result{Success: true, OutputPaths: outputs, Messages: rec.msgs}
}

// run walks the conversion state machine. Working-area destruction and the
// optional input deletion run on every exit path.
func (s *Service) run(ctx context.Context, req *Request, rec *recorder) (outputs []string, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	// Stage the working area.
	work, err := stageWorkArea(s.cfg.workRoot)
	if err != nil {
		return nil, err
	}
	rec.debugf("working area: %s", work.dir)
	defer func() {
		work.destroy()
		if req.DeleteInput {
			s.deleteInputs(req, rec)
		}
	}()

	// Stage inputs, pre-rendering the families the engine cannot read.
	sources, err := s.stageInputs(ctx, req, work, rec)
	if err != nil {
		return nil, err
	}

	// Build the engine argument vector. The engine writes into the working
	// area; paginating formats get a multi-file pattern.
	dest := work.outPath("output" + req.Format.Ext())
	if req.Format.paginates() {
		dest = work.outPath("page-%03d" + req.Format.Ext())
	}
	args := buildArgs(req, nil, dest, sources)
	rec.debugf("engine arguments: %v", args)

	// Resolve collisions with pre-existing output.
	outcome, err := resolveCollision(req, work)
	if err != nil {
		return nil, err
	}
	switch outcome.kind {
	case collisionRenamed:
		rec.infof("output exists, renamed to %s", outcome.newPath)
	case collisionEscaped:
		rec.infof("output exists, will merge (%s)", req.Policy)
	}

	// Invoke the engine.
	if err := s.renderer.Invoke(ctx, args); err != nil {
		return nil, err
	}
	rec.debugf("engine run complete")

	// Consolidate raw output to the final destination(s).
	outputs, err = consolidate(work, req.OutputPath)
	if err != nil {
		if len(outputs) > 0 {
			rec.infof("partial output kept: %d page(s) placed", len(outputs))
		}
		return nil, err
	}
	rec.debugf("placed %d file(s)", len(outputs))

	// Document-level finishing for PDF output.
	if req.Format == FormatPDF {
		job := PostProcessJob{
			Path:          req.OutputPath,
			MergePath:     outcome.escapedCopy,
			ExistingFirst: req.Policy == PolicyMergeTail,
			Metadata:      req.Metadata,
			Security:      req.Security,
			WorkDir:       work.dir,
		}
		if job.needed() {
			if err := s.postProcessor.Process(ctx, job); err != nil {
				return outputs, err
			}
			rec.debugf("post-processing complete")
		}
	}

	return outputs, nil
}

// stageInputs copies every input into the working area and pre-renders the
// ones the engine cannot read. Returns the engine's source file list in
// request order.
func (s *Service) stageInputs(ctx context.Context, req *Request, work *workArea, rec *recorder) ([]string, error) {
	sources := make([]string, 0, len(req.Inputs))
	for i, input := range req.Inputs {
		if !supportedInput(input) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, input)
		}
		staged, err := work.stageInput(input, i+1)
		if err != nil {
			return nil, err
		}

		if needsPreRender(staged) {
			rendered := work.path(fmt.Sprintf("render-%03d.pdf", i+1))
			if err := s.preRenderer.RenderToPDF(ctx, staged, rendered); err != nil {
				return nil, err
			}
			rec.debugf("pre-rendered %s", input)
			staged = rendered
		}
		sources = append(sources, staged)
	}
	return sources, nil
}

// deleteInputs removes the original inputs that are still present. Runs
// during cleanup when the request asked for it; failures are diagnostics,
// not run failures.
func (s *Service) deleteInputs(req *Request, rec *recorder) {
	for _, input := range req.Inputs {
		if !fileutil.FileExists(input) {
			continue
		}
		if err := fileutil.RemoveIfExists(input); err != nil {
			rec.infof("could not delete input %s: %v", input, err)
			continue
		}
		rec.debugf("deleted input %s", input)
	}
}
