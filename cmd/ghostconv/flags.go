package main

import (
	ghostconv "github.com/ghostware/go-ghostconv"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	profile string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags of the convert command.
type convertFlags struct {
	common commonFlags

	output  string
	workers int

	format      string
	pdfProfile  string
	pdfVersion  string
	resolution  int
	grayscale   bool
	embedFonts  bool
	rotate      bool
	orientation int
	firstPage   int
	lastPage    int
	compression string
	downsample  string
	onCollision string
	deleteInput bool

	title    string
	author   string
	subject  string
	keywords string

	ownerPassword string
	userPassword  string
	allowPrint    bool
	allowCopy     bool
	allowModify   bool
}

// parseConvertFlags parses the convert command's flags and returns the
// remaining positional arguments (input files).
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&f.common.profile, "profile", "p", "", "conversion profile name or path")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "suppress non-error output")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "verbose diagnostics")

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch mode (0 = auto)")

	fs.StringVarP(&f.format, "format", "f", "", "target format (pdf, ps, eps, png, jpeg, bmp, tiff)")
	fs.StringVar(&f.pdfProfile, "pdf-profile", "", "PDF sub-profile (default, a, x)")
	fs.StringVar(&f.pdfVersion, "pdf-version", "", "PDF compatibility level (1.2-1.7)")
	fs.IntVarP(&f.resolution, "resolution", "r", 0, "resolution in DPI")
	fs.BoolVar(&f.grayscale, "grayscale", false, "convert colors to grayscale")
	fs.BoolVar(&f.embedFonts, "embed-fonts", false, "embed and subset fonts")
	fs.BoolVar(&f.rotate, "rotate", false, "auto-rotate pages")
	fs.IntVar(&f.orientation, "orientation", -1, "force page orientation (0-3 quarter turns, -1 = auto)")
	fs.IntVar(&f.firstPage, "first-page", 0, "first page of the range")
	fs.IntVar(&f.lastPage, "last-page", 0, "last page of the range")
	fs.StringVar(&f.compression, "compression", "", "image compression filter (flate, dct, lzw)")
	fs.StringVar(&f.downsample, "downsample", "", "image downsampling (none, average, bicubic, subsample)")
	fs.StringVar(&f.onCollision, "on-collision", "", "existing-output policy (overwrite, rename, merge-head, merge-tail)")
	fs.BoolVar(&f.deleteInput, "delete-input", false, "delete input files after conversion")

	fs.StringVar(&f.title, "title", "", "PDF metadata: title")
	fs.StringVar(&f.author, "author", "", "PDF metadata: author")
	fs.StringVar(&f.subject, "subject", "", "PDF metadata: subject")
	fs.StringVar(&f.keywords, "keywords", "", "PDF metadata: keywords")

	fs.StringVar(&f.ownerPassword, "owner-password", "", "PDF encryption: owner password")
	fs.StringVar(&f.userPassword, "user-password", "", "PDF encryption: user password")
	fs.BoolVar(&f.allowPrint, "allow-print", false, "PDF encryption: allow printing")
	fs.BoolVar(&f.allowCopy, "allow-copy", false, "PDF encryption: allow copying")
	fs.BoolVar(&f.allowModify, "allow-modify", false, "PDF encryption: allow modification")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// formatNames maps flag values onto library formats.
var formatNames = map[string]ghostconv.Format{
	"pdf":  ghostconv.FormatPDF,
	"ps":   ghostconv.FormatPS,
	"eps":  ghostconv.FormatEPS,
	"png":  ghostconv.FormatPNG,
	"jpeg": ghostconv.FormatJPEG,
	"jpg":  ghostconv.FormatJPEG,
	"bmp":  ghostconv.FormatBMP,
	"tiff": ghostconv.FormatTIFF,
	"tif":  ghostconv.FormatTIFF,
}

// pdfProfileNames maps flag values onto PDF sub-profiles.
var pdfProfileNames = map[string]ghostconv.PDFProfile{
	"":        ghostconv.ProfileDefault,
	"default": ghostconv.ProfileDefault,
	"a":       ghostconv.ProfilePDFA,
	"x":       ghostconv.ProfilePDFX,
}

// filterNames maps flag values onto compression filters.
var filterNames = map[string]ghostconv.CompressionFilter{
	"":      ghostconv.FilterFlate,
	"flate": ghostconv.FilterFlate,
	"dct":   ghostconv.FilterDCT,
	"lzw":   ghostconv.FilterLZW,
}

// downsampleNames maps flag values onto downsampling algorithms.
var downsampleNames = map[string]ghostconv.DownsampleType{
	"":          ghostconv.DownsampleNone,
	"none":      ghostconv.DownsampleNone,
	"average":   ghostconv.DownsampleAverage,
	"bicubic":   ghostconv.DownsampleBicubic,
	"subsample": ghostconv.DownsampleSubsample,
}

// collisionNames maps flag values onto collision policies.
var collisionNames = map[string]ghostconv.CollisionPolicy{
	"":           ghostconv.PolicyOverwrite,
	"overwrite":  ghostconv.PolicyOverwrite,
	"rename":     ghostconv.PolicyRename,
	"merge-head": ghostconv.PolicyMergeHead,
	"merge-tail": ghostconv.PolicyMergeTail,
}
