package ghostconv

import (
	"fmt"
	"log/slog"
	"time"
)

// Format identifies a conversion target format.
type Format int

// Target formats.
const (
	FormatPDF Format = iota
	FormatPS
	FormatEPS
	FormatPNG
	FormatJPEG
	FormatBMP
	FormatTIFF
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatPS:
		return "ps"
	case FormatEPS:
		return "eps"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	default:
		return "." + f.String()
	}
}

// valid reports whether f is a known format.
func (f Format) valid() bool {
	return f >= FormatPDF && f <= FormatTIFF
}

// paginates reports whether the engine may split this format into one file
// per page. A prior multi-page run leaves outputs named <name>-001<ext>, so
// collision probing must check that variant too.
func (f Format) paginates() bool {
	switch f {
	case FormatEPS, FormatPNG, FormatJPEG, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// raster reports whether the format is a raster image format. Raster devices
// get 4-bit text and graphics anti-aliasing.
func (f Format) raster() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// PDFProfile selects the PDF sub-profile. Profiles are mutually exclusive;
// PDF/A and PDF/X override several request fields (font embedding is always
// on, colors are CIE-based).
type PDFProfile int

// PDF profiles.
const (
	ProfileDefault PDFProfile = iota // plain PDF
	ProfilePDFA
	ProfilePDFX
)

// String returns the profile name.
func (p PDFProfile) String() string {
	switch p {
	case ProfileDefault:
		return "pdf"
	case ProfilePDFA:
		return "pdf/a"
	case ProfilePDFX:
		return "pdf/x"
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// CompressionFilter selects the image compression filter applied to all
// three image channels (color, gray, mono).
type CompressionFilter int

// Compression filters.
const (
	FilterFlate CompressionFilter = iota
	FilterDCT
	FilterLZW
)

// token returns the PostScript name for the filter.
func (c CompressionFilter) token() string {
	switch c {
	case FilterDCT:
		return "/DCTEncode"
	case FilterLZW:
		return "/LZWEncode"
	default:
		return "/FlateEncode"
	}
}

// DownsampleType selects the image downsampling algorithm. DownsampleNone
// disables downsampling on all three channels.
type DownsampleType int

// Downsampling algorithms.
const (
	DownsampleNone DownsampleType = iota
	DownsampleAverage
	DownsampleBicubic
	DownsampleSubsample
)

// token returns the PostScript name for the algorithm.
func (d DownsampleType) token() string {
	switch d {
	case DownsampleAverage:
		return "/Average"
	case DownsampleBicubic:
		return "/Bicubic"
	case DownsampleSubsample:
		return "/Subsample"
	}
	return ""
}

// CollisionPolicy selects the behavior when the output path already exists.
type CollisionPolicy int

// Collision policies.
const (
	// PolicyOverwrite replaces any pre-existing output file.
	PolicyOverwrite CollisionPolicy = iota

	// PolicyRename probes <name>(2)<ext> .. <name>(9999)<ext> and writes to
	// the first free slot.
	PolicyRename

	// PolicyMergeHead places the new document's pages before the
	// pre-existing file's pages. PDF output only; degrades to overwrite
	// semantics for other formats.
	PolicyMergeHead

	// PolicyMergeTail appends the new document's pages after the
	// pre-existing file's pages. PDF output only.
	PolicyMergeTail
)

// String returns the policy name.
func (p CollisionPolicy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyRename:
		return "rename"
	case PolicyMergeHead:
		return "merge-head"
	case PolicyMergeTail:
		return "merge-tail"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// valid reports whether p is a known policy.
func (p CollisionPolicy) valid() bool {
	return p >= PolicyOverwrite && p <= PolicyMergeTail
}

// Orientation selects a forced page orientation. The zero value is
// OrientationAuto, so a request that never touches the field forces
// nothing.
type Orientation int

// Page orientations, in quarter turns clockwise from portrait.
const (
	OrientationAuto Orientation = iota
	OrientationPortrait
	OrientationLandscape
	OrientationUpsideDown
	OrientationSeascape
)

// valid reports whether o is a known orientation.
func (o Orientation) valid() bool {
	return o >= OrientationAuto && o <= OrientationSeascape
}

// turns returns the engine's quarter-turn count for a forced orientation.
func (o Orientation) turns() int {
	return int(o) - 1
}

// Metadata holds document information applied to PDF output during
// post-processing.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
}

// empty reports whether no metadata field is set.
func (m *Metadata) empty() bool {
	if m == nil {
		return true
	}
	return m.Title == "" && m.Author == "" && m.Subject == "" &&
		m.Keywords == "" && m.Creator == ""
}

// Security holds PDF encryption settings applied during post-processing.
// Passwords are applied with 128-bit encryption.
type Security struct {
	OwnerPassword string
	UserPassword  string
	AllowPrint    bool
	AllowCopy     bool
	AllowModify   bool
}

// Request is an immutable snapshot of one conversion. It is created once per
// run and never mutated after staging begins, with one exception: the
// collision resolver may rewrite OutputPath exactly once under PolicyRename.
type Request struct {
	// Inputs are the source files, rendered in order. SVG, HTML, and
	// Markdown inputs are pre-rendered to an intermediate PDF before the
	// engine pass.
	Inputs []string

	// OutputPath is the desired destination. Multi-page raster output is
	// distributed as <name>-001<ext>, <name>-002<ext>, ...
	OutputPath string

	Format  Format
	Profile PDFProfile

	// PDFVersion sets the compatibility level for plain PDF output
	// ("1.2" through "1.7"). Empty means DefaultPDFVersion.
	PDFVersion string

	// Resolution in DPI. Zero means DefaultResolution.
	Resolution int

	Grayscale  bool
	EmbedFonts bool

	// Rotate enables per-page auto-rotation.
	Rotate bool

	// Orientation forces a page orientation. The zero value
	// (OrientationAuto) leaves orientation to the engine.
	Orientation Orientation

	// FirstPage and LastPage restrict the page range. Zero values mean the
	// full document.
	FirstPage int
	LastPage  int

	Filter     CompressionFilter
	Downsample DownsampleType

	Policy CollisionPolicy

	// DeleteInput removes the original input files after a successful run.
	DeleteInput bool

	// Metadata and Security feed the PDF post-processing pass. Ignored for
	// non-PDF formats.
	Metadata *Metadata
	Security *Security
}

// Defaults applied by Validate.
const (
	DefaultResolution = 150
	DefaultPDFVersion = "1.4"
)

// pdfVersions lists accepted compatibility levels.
var pdfVersions = map[string]bool{
	"1.2": true, "1.3": true, "1.4": true, "1.5": true, "1.6": true, "1.7": true,
}

// Validate checks the request and fills defaulted fields in place.
func (r *Request) Validate() error {
	if len(r.Inputs) == 0 {
		return ErrNoInput
	}
	if r.OutputPath == "" {
		return ErrNoOutput
	}
	if !r.Format.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, int(r.Format))
	}
	if !r.Policy.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPolicy, int(r.Policy))
	}
	if r.Resolution == 0 {
		r.Resolution = DefaultResolution
	}
	if r.Resolution < 0 || r.Resolution > 2400 {
		return fmt.Errorf("%w: %d (must be 1-2400)", ErrInvalidResolution, r.Resolution)
	}
	if r.PDFVersion == "" {
		r.PDFVersion = DefaultPDFVersion
	}
	if !pdfVersions[r.PDFVersion] {
		return fmt.Errorf("%w: unknown PDF version %q", ErrInvalidFormat, r.PDFVersion)
	}
	if r.FirstPage < 0 || r.LastPage < 0 || (r.LastPage > 0 && r.FirstPage > r.LastPage) {
		return fmt.Errorf("%w: %d-%d", ErrInvalidPageRange, r.FirstPage, r.LastPage)
	}
	if !r.Orientation.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, int(r.Orientation))
	}
	return nil
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout  time.Duration
	workRoot string
	logger   *slog.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the per-run engine timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ghostconv: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithWorkRoot sets the directory under which working areas are created.
// Defaults to os.TempDir().
func WithWorkRoot(dir string) Option {
	return func(s *Service) {
		s.cfg.workRoot = dir
	}
}

// WithLogger mirrors run diagnostics to a structured logger in addition to
// the Result's message sequence.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.cfg.logger = l
	}
}

// WithRenderer substitutes the engine implementation (e.g., by tests).
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithPreRenderer substitutes the SVG/HTML/Markdown pre-renderer.
func WithPreRenderer(p PreRenderer) Option {
	return func(s *Service) {
		s.preRenderer = p
	}
}

// WithPostProcessor substitutes the PDF post-processing step.
func WithPostProcessor(p PostProcessor) Option {
	return func(s *Service) {
		s.postProcessor = p
	}
}
