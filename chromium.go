package ghostconv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yuin/goldmark"
)

// PreRenderer turns sources the engine cannot read (SVG, HTML, Markdown)
// into an intermediate PDF inside the working area. The intermediate then
// feeds the engine pass like any other PDF input.
type PreRenderer interface {
	RenderToPDF(ctx context.Context, srcPath, dstPath string) error
	Close() error
}

// Compile-time interface check.
var _ PreRenderer = (*chromiumRenderer)(nil)

// preRenderExts lists input extensions routed through the pre-renderer.
// The engine only reads PostScript-family input, so raster images go through
// Chromium as well (TIFF is out: Chromium does not decode it).
var preRenderExts = map[string]bool{
	".svg":      true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".png":      true,
	".jpg":      true,
	".jpeg":     true,
	".bmp":      true,
	".gif":      true,
	".webp":     true,
}

// needsPreRender reports whether the source file must be pre-rendered
// before the engine can consume it.
func needsPreRender(path string) bool {
	return preRenderExts[strings.ToLower(filepath.Ext(path))]
}

// engineExts lists input extensions the engine reads directly.
var engineExts = map[string]bool{
	".pdf": true, ".ps": true, ".eps": true,
}

// supportedInput reports whether the source file can enter the pipeline.
func supportedInput(path string) bool {
	return engineExts[strings.ToLower(filepath.Ext(path))] || needsPreRender(path)
}

// chromiumRenderer implements PreRenderer using headless Chromium via
// go-rod. Rod downloads a managed Chromium on first run if none is found.
type chromiumRenderer struct {
	browser *rod.Browser
	timeout time.Duration
	md      goldmark.Markdown
}

// newChromiumRenderer creates a chromiumRenderer with the given timeout.
// The browser connects lazily on first use.
func newChromiumRenderer(timeout time.Duration) *chromiumRenderer {
	return &chromiumRenderer{timeout: timeout, md: newMarkdown()}
}

// ensureBrowser lazily connects to the browser.
func (r *chromiumRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized
	// environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: launching browser: %v", ErrRenderFailure, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: connecting to browser: %v", ErrRenderFailure, err)
	}
	return nil
}

// Close releases browser resources.
func (r *chromiumRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderToPDF opens the source in headless Chromium and prints it to a PDF
// at dstPath. Markdown sources are converted to HTML first; SVG and HTML
// load as-is.
func (r *chromiumRenderer) RenderToPDF(ctx context.Context, srcPath, dstPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	loadPath := srcPath
	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext == ".md" || ext == ".markdown" {
		content, err := os.ReadFile(srcPath) // #nosec G304 -- staged copy
		if err != nil {
			return fmt.Errorf("%w: reading markdown: %v", ErrRenderFailure, err)
		}
		htmlContent, err := markdownToHTML(r.md, content)
		if err != nil {
			return err
		}
		loadPath = strings.TrimSuffix(srcPath, ext) + ".html"
		if err := os.WriteFile(loadPath, []byte(htmlContent), 0o600); err != nil {
			return fmt.Errorf("%w: writing intermediate HTML: %v", ErrRenderFailure, err)
		}
	}

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + loadPath})
	if err != nil {
		return fmt.Errorf("%w: creating page: %v", ErrRenderFailure, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: loading %s: %v", ErrRenderFailure, filepath.Base(srcPath), err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return fmt.Errorf("%w: printing to PDF: %v", ErrRenderFailure, err)
	}

	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrRenderFailure, err)
	}

	if err := os.WriteFile(dstPath, pdfBytes, 0o600); err != nil {
		return fmt.Errorf("%w: writing intermediate PDF: %v", ErrRenderFailure, err)
	}
	return nil
}
