// Package ghostconv converts documents and images between vector formats
// (PDF, PostScript, EPS, SVG) and raster formats (PNG, JPEG, BMP, TIFF) by
// delegating rendering to an external Ghostscript process.
//
// The package owns everything around the single engine call: translating a
// conversion request into an ordered engine argument vector, staging inputs
// in an isolated working area, resolving collisions with pre-existing output
// files (overwrite, merge, rename), consolidating the engine's raw output
// into the final artifact(s), and cleaning up all temporary state on every
// exit path.
//
// # Quick Start
//
//	svc := ghostconv.New()
//	defer svc.Close()
//
//	res := svc.Convert(ctx, ghostconv.Request{
//	    Inputs:     []string{"report.ps"},
//	    OutputPath: "report.pdf",
//	    Format:     ghostconv.FormatPDF,
//	    Resolution: 300,
//	})
//	if !res.Success {
//	    for _, m := range res.Messages {
//	        log.Println(m)
//	    }
//	}
//
// # Pipeline
//
// A conversion walks a fixed sequence of stages:
//
//  1. Working-area staging (isolated temp dir, input copies)
//  2. Argument building (device, profile, image pipeline, page geometry)
//  3. Collision resolution (overwrite / rename / merge with existing output)
//  4. Engine invocation (serialized process-wide; Ghostscript is not
//     reentrant within one process)
//  5. Output consolidation (single move, or -NNN numbering for multi-page
//     raster output)
//  6. PDF post-processing (merge, metadata, encryption) when applicable
//  7. Teardown (always runs, success or failure)
//
// # Engine Requirements
//
// Conversion requires a Ghostscript binary on PATH (gs, or gswin64c on
// Windows). Set GHOSTCONV_GS_BIN to point at a specific binary. SVG, HTML,
// and Markdown inputs are pre-rendered to an intermediate PDF with headless
// Chromium via go-rod before the Ghostscript pass; rod downloads a managed
// Chromium on first use, or honors ROD_BROWSER_BIN.
//
// # Parallel Processing
//
// Multiple conversions may run concurrently (each owns an independent
// working area); the engine guard serializes the Ghostscript invocations
// themselves. Use ServicePool to bound concurrent runs:
//
//	pool := ghostconv.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	res := svc.Convert(ctx, req)
package ghostconv
