package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ghostconv "github.com/ghostware/go-ghostconv"
	"github.com/ghostware/go-ghostconv/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoCommand        = errors.New("no command specified")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrNoInput          = errors.New("no input files specified")
	ErrNoOutput         = errors.New("no output specified (use -o or a profile with output.defaultDir)")
	ErrUnknownFormat    = errors.New("unknown format")
	ErrUnknownEnumValue = errors.New("unknown flag value")
	ErrConversionFailed = errors.New("conversion failed")
)

// runConvert loads the profile, merges flags over it, and converts the
// inputs: all inputs into one output file, or each input separately when
// the output is a directory (batch mode).
func runConvert(inputs []string, flags *convertFlags, deps *Dependencies) error {
	if len(inputs) == 0 {
		printConvertUsage(deps.Stderr)
		return ErrNoInput
	}

	prof := config.DefaultProfile()
	if flags.common.profile != "" {
		loaded, err := config.LoadProfile(flags.common.profile)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		prof = loaded
	}
	mergeFlags(flags, prof)

	base, err := requestFromProfile(prof, flags)
	if err != nil {
		return err
	}

	opts := serviceOptions(flags, deps)

	outDir := batchOutputDir(flags.output, prof.Output.DefaultDir, len(inputs))
	if outDir != "" {
		return runBatch(inputs, outDir, base, flags, opts, deps)
	}

	if flags.output == "" {
		return ErrNoOutput
	}

	// Single run: all inputs feed one output document.
	req := base
	req.Inputs = inputs
	req.OutputPath = flags.output

	svc := ghostconv.New(opts...)
	defer svc.Close()

	res := svc.Convert(context.Background(), req)
	reportResult(res, inputs[0], flags, deps)
	if !res.Success {
		return ErrConversionFailed
	}
	return nil
}

// batchOutputDir decides whether batch mode applies: the output is an
// existing directory, ends with a separator, or several inputs were given
// with a profile-provided default directory.
func batchOutputDir(output, defaultDir string, inputCount int) string {
	target := output
	if target == "" {
		target = defaultDir
	}
	if target == "" {
		return ""
	}
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return target
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return target
	}
	if output == "" && defaultDir != "" && inputCount > 1 {
		return defaultDir
	}
	return ""
}

// runBatch converts each input separately into outDir, in parallel over a
// service pool.
func runBatch(inputs []string, outDir string, base ghostconv.Request, flags *convertFlags, opts []ghostconv.Option, deps *Dependencies) error {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	pool := ghostconv.NewServicePool(ghostconv.ResolvePoolSize(flags.workers), opts...)
	defer pool.Close()

	var wg sync.WaitGroup
	results := make([]ghostconv.Result, len(inputs))

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			svc := pool.Acquire()
			defer pool.Release(svc)

			req := base
			req.Inputs = []string{input}
			req.OutputPath = outputPathFor(input, outDir, base.Format)
			results[i] = svc.Convert(context.Background(), req)
		}(i, input)
	}
	wg.Wait()

	failed := 0
	for i, res := range results {
		reportResult(res, inputs[i], flags, deps)
		if !res.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrConversionFailed, failed, len(inputs))
	}
	return nil
}

// orientationFromFlag maps the CLI's quarter-turn flag (-1 = auto) onto the
// library's orientation values.
func orientationFromFlag(n int) (ghostconv.Orientation, error) {
	if n == -1 {
		return ghostconv.OrientationAuto, nil
	}
	if n < 0 || n > 3 {
		return 0, fmt.Errorf("%w: orientation %d", ErrUnknownEnumValue, n)
	}
	return ghostconv.OrientationPortrait + ghostconv.Orientation(n), nil
}

// outputPathFor derives the destination inside outDir from the input's base
// name and the target format's extension.
func outputPathFor(input, outDir string, format ghostconv.Format) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+format.Ext())
}

// serviceOptions builds the library options from flags.
func serviceOptions(flags *convertFlags, deps *Dependencies) []ghostconv.Option {
	var opts []ghostconv.Option
	if flags.common.verbose {
		logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, ghostconv.WithLogger(logger))
	}
	return opts
}

// reportResult prints the run's diagnostics according to quiet/verbose.
func reportResult(res ghostconv.Result, input string, flags *convertFlags, deps *Dependencies) {
	for _, m := range res.Messages {
		switch m.Level {
		case ghostconv.LevelError:
			fmt.Fprintf(deps.Stderr, "%s: %s\n", input, m.Text)
		case ghostconv.LevelInfo:
			if !flags.common.quiet {
				fmt.Fprintf(deps.Stdout, "%s: %s\n", input, m.Text)
			}
		case ghostconv.LevelDebug:
			if flags.common.verbose {
				fmt.Fprintf(deps.Stderr, "%s: %s\n", input, m.Text)
			}
		}
	}
	if res.Success && !flags.common.quiet {
		for _, out := range res.OutputPaths {
			fmt.Fprintf(deps.Stdout, "Created %s\n", out)
		}
	}
}

// mergeFlags overlays explicitly set CLI flags onto the profile (CLI wins).
func mergeFlags(flags *convertFlags, prof *config.Profile) {
	if flags.format != "" {
		prof.Format = flags.format
	}
	if flags.pdfProfile != "" {
		prof.PDF.Profile = flags.pdfProfile
	}
	if flags.pdfVersion != "" {
		prof.PDF.Version = flags.pdfVersion
	}
	if flags.resolution > 0 {
		prof.Resolution = flags.resolution
	}
	if flags.grayscale {
		prof.Grayscale = true
	}
	if flags.embedFonts {
		prof.EmbedFonts = true
	}
	if flags.rotate {
		prof.Rotate = true
	}
	if flags.compression != "" {
		prof.Compression = flags.compression
	}
	if flags.downsample != "" {
		prof.Downsample = flags.downsample
	}
	if flags.onCollision != "" {
		prof.OnCollision = flags.onCollision
	}
	if flags.deleteInput {
		prof.DeleteInput = true
	}
	if flags.title != "" {
		prof.Metadata.Title = flags.title
	}
	if flags.author != "" {
		prof.Metadata.Author = flags.author
	}
	if flags.subject != "" {
		prof.Metadata.Subject = flags.subject
	}
	if flags.keywords != "" {
		prof.Metadata.Keywords = flags.keywords
	}
	if flags.ownerPassword != "" || flags.userPassword != "" {
		prof.Security.Enabled = true
		prof.Security.OwnerPassword = flags.ownerPassword
		prof.Security.UserPassword = flags.userPassword
		prof.Security.AllowPrint = flags.allowPrint
		prof.Security.AllowCopy = flags.allowCopy
		prof.Security.AllowModify = flags.allowModify
	}
}

// requestFromProfile maps the merged profile onto a request template
// (inputs and output path are filled per run).
func requestFromProfile(prof *config.Profile, flags *convertFlags) (ghostconv.Request, error) {
	var req ghostconv.Request

	format, ok := formatNames[strings.ToLower(prof.Format)]
	if !ok {
		return req, fmt.Errorf("%w: %q", ErrUnknownFormat, prof.Format)
	}
	pdfProfile, ok := pdfProfileNames[strings.ToLower(prof.PDF.Profile)]
	if !ok {
		return req, fmt.Errorf("%w: pdf profile %q", ErrUnknownEnumValue, prof.PDF.Profile)
	}
	filter, ok := filterNames[strings.ToLower(prof.Compression)]
	if !ok {
		return req, fmt.Errorf("%w: compression %q", ErrUnknownEnumValue, prof.Compression)
	}
	downsample, ok := downsampleNames[strings.ToLower(prof.Downsample)]
	if !ok {
		return req, fmt.Errorf("%w: downsample %q", ErrUnknownEnumValue, prof.Downsample)
	}
	policy, ok := collisionNames[strings.ToLower(prof.OnCollision)]
	if !ok {
		return req, fmt.Errorf("%w: collision policy %q", ErrUnknownEnumValue, prof.OnCollision)
	}
	orientation, err := orientationFromFlag(flags.orientation)
	if err != nil {
		return req, err
	}

	req = ghostconv.Request{
		Format:      format,
		Profile:     pdfProfile,
		PDFVersion:  prof.PDF.Version,
		Resolution:  prof.Resolution,
		Grayscale:   prof.Grayscale,
		EmbedFonts:  prof.EmbedFonts,
		Rotate:      prof.Rotate,
		Orientation: orientation,
		FirstPage:   flags.firstPage,
		LastPage:    flags.lastPage,
		Filter:      filter,
		Downsample:  downsample,
		Policy:      policy,
		DeleteInput: prof.DeleteInput,
	}

	if m := prof.Metadata; m != (config.MetadataConfig{}) {
		req.Metadata = &ghostconv.Metadata{
			Title:    m.Title,
			Author:   m.Author,
			Subject:  m.Subject,
			Keywords: m.Keywords,
			Creator:  m.Creator,
		}
	}
	if prof.Security.Enabled {
		req.Security = &ghostconv.Security{
			OwnerPassword: prof.Security.OwnerPassword,
			UserPassword:  prof.Security.UserPassword,
			AllowPrint:    prof.Security.AllowPrint,
			AllowCopy:     prof.Security.AllowCopy,
			AllowModify:   prof.Security.AllowModify,
		}
	}
	return req, nil
}
