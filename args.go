package ghostconv

import (
	"fmt"
	"strconv"
)

// engineOption is one engine option token. Options render as
// -s<name>=<value> when the name is in stringKeys, -d<name>=<value>
// otherwise, and without the "=<value>" part when no value is set.
type engineOption struct {
	name     string
	value    string
	hasValue bool
}

// flagOpt is an option with no value, e.g. -dPDFA.
func flagOpt(name string) engineOption {
	return engineOption{name: name}
}

// strOpt is an option with a literal value.
func strOpt(name, value string) engineOption {
	return engineOption{name: name, value: value, hasValue: true}
}

// boolOpt is an option with a true/false value.
func boolOpt(name string, value bool) engineOption {
	return engineOption{name: name, value: strconv.FormatBool(value), hasValue: true}
}

// intOpt is an option with a numeric value.
func intOpt(name string, value int) engineOption {
	return engineOption{name: name, value: strconv.Itoa(value), hasValue: true}
}

// stringKeys lists option names rendered with the -s (string) prefix.
// Everything else renders with -d (definition) form.
var stringKeys = map[string]bool{
	"ProcessColorModel":       true,
	"ColorConversionStrategy": true,
}

// render produces the token for one option.
func (o engineOption) render() string {
	prefix := "-d"
	if stringKeys[o.name] {
		prefix = "-s"
	}
	if !o.hasValue {
		return prefix + o.name
	}
	return prefix + o.name + "=" + o.value
}

// deviceFor maps (format, grayscale) to the engine device identifier.
func deviceFor(format Format, grayscale bool) string {
	switch format {
	case FormatPDF:
		return "pdfwrite"
	case FormatPS:
		return "ps2write"
	case FormatEPS:
		return "eps2write"
	case FormatPNG:
		if grayscale {
			return "pnggray"
		}
		return "png16m"
	case FormatJPEG:
		if grayscale {
			return "jpeggray"
		}
		return "jpeg"
	case FormatBMP:
		if grayscale {
			return "bmpgray"
		}
		return "bmp16m"
	case FormatTIFF:
		if grayscale {
			return "tiffgray"
		}
		return "tiff24nc"
	}
	return ""
}

// Mono image resolution rule: the mono channel never goes below 300 DPI,
// and anything above 300 is boosted to 1200 to keep line art sharp. Exactly
// 300 stays at 300.
const (
	monoFloor = 300
	monoBoost = 1200
)

// monoResolution derives the mono-channel resolution from the base DPI.
func monoResolution(base int) int {
	if base <= monoFloor {
		return monoFloor
	}
	return monoBoost
}

// buildArgs translates a validated request into the ordered engine argument
// vector. Pure: no I/O beyond reading the request. Token order matters to
// the engine: device and device-mode tokens come first, font include paths
// before resolution, the output-file token before any page sources, and
// source files last.
func buildArgs(req *Request, fontDirs []string, dest string, sources []string) []string {
	args := make([]string, 0, 48)

	// Device selection.
	args = append(args, "-sDEVICE="+deviceFor(req.Format, req.Grayscale))
	if req.Format.raster() {
		args = append(args, "-dTextAlphaBits=4", "-dGraphicsAlphaBits=4")
	}

	// Font include paths.
	for _, dir := range fontDirs {
		args = append(args, "-I"+dir)
	}

	// Resolution.
	args = append(args, "-r"+strconv.Itoa(req.Resolution))

	// Page geometry.
	if req.Rotate {
		args = append(args, "-dAutoRotatePages=/PageByPage")
	} else {
		args = append(args, "-dAutoRotatePages=/None")
	}
	if req.FirstPage > 0 || req.LastPage > 0 {
		if req.FirstPage > 0 {
			args = append(args, "-dFirstPage="+strconv.Itoa(req.FirstPage))
		}
		if req.LastPage > 0 {
			args = append(args, "-dLastPage="+strconv.Itoa(req.LastPage))
		}
	}

	// Fixed baseline flags.
	args = append(args, "-q", "-dNOPAUSE", "-dBATCH", "-dSAFER")

	// Profile and image-pipeline options.
	for _, opt := range profileOptions(req) {
		args = append(args, opt.render())
	}
	for _, opt := range imageOptions(req) {
		args = append(args, opt.render())
	}

	// Destination.
	args = append(args, "-sOutputFile="+dest)

	// Forced orientation runs as an inline PostScript fragment; -f switches
	// the interpreter back to file arguments afterwards.
	if req.Orientation != OrientationAuto {
		args = append(args,
			"-c", fmt.Sprintf("<</Orientation %d>> setpagedevice", req.Orientation.turns()),
			"-f")
	}

	// Sources, in request order.
	args = append(args, sources...)
	return args
}

// profileOptions returns the format-family options.
func profileOptions(req *Request) []engineOption {
	switch req.Format {
	case FormatPDF:
		return pdfOptions(req)
	case FormatPS, FormatEPS:
		return fontOptions(req.EmbedFonts)
	}
	return nil
}

// fontOptions encodes font embedding for the document family.
func fontOptions(embed bool) []engineOption {
	if embed {
		return []engineOption{
			boolOpt("EmbedAllFonts", true),
			boolOpt("SubsetFonts", true),
		}
	}
	return []engineOption{boolOpt("EmbedAllFonts", false)}
}

// pdfOptions encodes the three mutually exclusive PDF profiles.
func pdfOptions(req *Request) []engineOption {
	var opts []engineOption

	switch req.Profile {
	case ProfilePDFA:
		// PDF/A mandates embedded fonts and CIE colors; the request's
		// embedding flag is ignored.
		opts = append(opts,
			flagOpt("PDFA"),
			strOpt("CompatibilityLevel", req.PDFVersion),
			boolOpt("EmbedAllFonts", true),
			boolOpt("SubsetFonts", true),
			boolOpt("UseCIEColor", true),
		)
		if req.Grayscale {
			opts = append(opts, grayOptions()...)
		}

	case ProfilePDFX:
		// PDF/X mandates embedded fonts and CIE colors, and never uses
		// device-independent RGB: output is DeviceGray or DeviceCMYK.
		opts = append(opts,
			flagOpt("PDFX"),
			strOpt("CompatibilityLevel", req.PDFVersion),
			boolOpt("EmbedAllFonts", true),
			boolOpt("SubsetFonts", true),
			boolOpt("UseCIEColor", true),
		)
		if req.Grayscale {
			opts = append(opts, grayOptions()...)
		} else {
			opts = append(opts,
				strOpt("ProcessColorModel", "/DeviceCMYK"),
				strOpt("ColorConversionStrategy", "/CMYK"),
			)
		}

	default:
		opts = append(opts,
			strOpt("CompatibilityLevel", req.PDFVersion),
			boolOpt("UseFlateCompression", true),
		)
		opts = append(opts, fontOptions(req.EmbedFonts)...)
		if req.Grayscale {
			opts = append(opts, grayOptions()...)
		}
	}
	return opts
}

// grayOptions converts the PDF color pipeline to grayscale.
func grayOptions() []engineOption {
	return []engineOption{
		strOpt("ProcessColorModel", "/DeviceGray"),
		strOpt("ColorConversionStrategy", "/Gray"),
	}
}

// imageOptions encodes the image pipeline, applied uniformly regardless of
// target format: per-channel resolutions, a fixed compression filter with
// the engine's auto-filter selection disabled, and downsampling toggled for
// all three channels at once.
func imageOptions(req *Request) []engineOption {
	opts := []engineOption{
		intOpt("ColorImageResolution", req.Resolution),
		intOpt("GrayImageResolution", req.Resolution),
		intOpt("MonoImageResolution", monoResolution(req.Resolution)),
		strOpt("ColorImageFilter", req.Filter.token()),
		strOpt("GrayImageFilter", req.Filter.token()),
		strOpt("MonoImageFilter", req.Filter.token()),
		boolOpt("AutoFilterColorImages", false),
		boolOpt("AutoFilterGrayImages", false),
		boolOpt("AutoFilterMonoImages", false),
	}

	if req.Downsample == DownsampleNone {
		opts = append(opts,
			boolOpt("DownsampleColorImages", false),
			boolOpt("DownsampleGrayImages", false),
			boolOpt("DownsampleMonoImages", false),
		)
		return opts
	}

	opts = append(opts,
		boolOpt("DownsampleColorImages", true),
		boolOpt("DownsampleGrayImages", true),
		boolOpt("DownsampleMonoImages", true),
		strOpt("ColorImageDownsampleType", req.Downsample.token()),
		strOpt("GrayImageDownsampleType", req.Downsample.token()),
		strOpt("MonoImageDownsampleType", req.Downsample.token()),
	)
	return opts
}
