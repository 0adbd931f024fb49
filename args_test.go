package ghostconv

import (
	"slices"
	"strings"
	"testing"
)

// baseRequest returns a validated request for builder tests.
func baseRequest(t *testing.T, mutate func(*Request)) *Request {
	t.Helper()
	req := &Request{
		Inputs:     []string{"in.ps"},
		OutputPath: "out.pdf",
		Format:     FormatPDF,
	}
	if mutate != nil {
		mutate(req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return req
}

// hasToken reports whether any argument equals or contains the token.
func hasToken(args []string, token string) bool {
	for _, a := range args {
		if strings.Contains(a, token) {
			return true
		}
	}
	return false
}

func TestDeviceFor(t *testing.T) {
	tests := []struct {
		format    Format
		grayscale bool
		want      string
	}{
		{FormatPDF, false, "pdfwrite"},
		{FormatPDF, true, "pdfwrite"},
		{FormatPS, false, "ps2write"},
		{FormatEPS, false, "eps2write"},
		{FormatPNG, false, "png16m"},
		{FormatPNG, true, "pnggray"},
		{FormatJPEG, false, "jpeg"},
		{FormatJPEG, true, "jpeggray"},
		{FormatBMP, false, "bmp16m"},
		{FormatBMP, true, "bmpgray"},
		{FormatTIFF, false, "tiff24nc"},
		{FormatTIFF, true, "tiffgray"},
	}
	for _, tt := range tests {
		if got := deviceFor(tt.format, tt.grayscale); got != tt.want {
			t.Errorf("deviceFor(%v, %v) = %q, want %q", tt.format, tt.grayscale, got, tt.want)
		}
	}
}

func TestBuildArgsOrdering(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Orientation = OrientationSeascape
	})
	args := buildArgs(req, []string{"/fonts"}, "/work/out/output.pdf", []string{"/work/a.ps", "/work/b.ps"})

	if !strings.HasPrefix(args[0], "-sDEVICE=") {
		t.Fatalf("first token = %q, want device selection", args[0])
	}

	idx := func(prefix string) int {
		for i, a := range args {
			if strings.HasPrefix(a, prefix) {
				return i
			}
		}
		t.Fatalf("token %q not found in %v", prefix, args)
		return -1
	}

	// Include paths precede resolution; the output token precedes sources;
	// sources are last, in order.
	if !(idx("-I") < idx("-r")) {
		t.Errorf("font path must precede resolution: %v", args)
	}
	if !(idx("-sOutputFile=") < idx("/work/a.ps")) {
		t.Errorf("output token must precede sources: %v", args)
	}
	if !(idx("-c") > idx("-sOutputFile=")) {
		t.Errorf("orientation script must follow the output token: %v", args)
	}

	if got := args[len(args)-2:]; got[0] != "/work/a.ps" || got[1] != "/work/b.ps" {
		t.Errorf("sources must come last in order, got tail %v", got)
	}
}

func TestBuildArgsRasterAntiAliasing(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Format = FormatPNG
		r.OutputPath = "out.png"
	})
	args := buildArgs(req, nil, "out-%03d.png", []string{"in.ps"})

	for _, want := range []string{"-dTextAlphaBits=4", "-dGraphicsAlphaBits=4"} {
		if !slices.Contains(args, want) {
			t.Errorf("raster args missing %q: %v", want, args)
		}
	}

	// Vector output gets no anti-aliasing sub-options.
	pdfArgs := buildArgs(baseRequest(t, nil), nil, "output.pdf", []string{"in.ps"})
	if hasToken(pdfArgs, "TextAlphaBits") {
		t.Errorf("pdf args should not carry alpha bits: %v", pdfArgs)
	}
}

func TestGrayscaleAcrossPDFProfiles(t *testing.T) {
	for _, profile := range []PDFProfile{ProfileDefault, ProfilePDFA, ProfilePDFX} {
		req := baseRequest(t, func(r *Request) {
			r.Profile = profile
			r.Grayscale = true
		})
		args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

		if !hasToken(args, "ProcessColorModel=/DeviceGray") {
			t.Errorf("%v grayscale: missing ProcessColorModel=/DeviceGray: %v", profile, args)
		}
		if !hasToken(args, "ColorConversionStrategy=/Gray") {
			t.Errorf("%v grayscale: missing ColorConversionStrategy=/Gray: %v", profile, args)
		}
	}
}

func TestPDFXColorModel(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Profile = ProfilePDFX
	})
	args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

	if !hasToken(args, "ProcessColorModel=/DeviceCMYK") {
		t.Errorf("PDF/X color: missing ProcessColorModel=/DeviceCMYK: %v", args)
	}
	if !hasToken(args, "ColorConversionStrategy=/CMYK") {
		t.Errorf("PDF/X color: missing ColorConversionStrategy=/CMYK: %v", args)
	}
	if hasToken(args, "DeviceGray") {
		t.Errorf("PDF/X color must never use DeviceGray: %v", args)
	}
}

func TestPDFProfileOverrides(t *testing.T) {
	// PDF/A and PDF/X force font embedding on even when not requested.
	for _, profile := range []PDFProfile{ProfilePDFA, ProfilePDFX} {
		req := baseRequest(t, func(r *Request) {
			r.Profile = profile
			r.EmbedFonts = false
		})
		args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

		for _, want := range []string{"-dEmbedAllFonts=true", "-dSubsetFonts=true", "-dUseCIEColor=true"} {
			if !slices.Contains(args, want) {
				t.Errorf("%v: missing %q: %v", profile, want, args)
			}
		}
	}
}

func TestPlainPDFOptions(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.PDFVersion = "1.6"
		r.EmbedFonts = true
	})
	args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

	for _, want := range []string{
		"-dCompatibilityLevel=1.6",
		"-dUseFlateCompression=true",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=true",
	} {
		if !slices.Contains(args, want) {
			t.Errorf("missing %q: %v", want, args)
		}
	}
}

func TestNoFontEmbedding(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Format = FormatPS
		r.OutputPath = "out.ps"
	})
	args := buildArgs(req, nil, "output.ps", []string{"in.pdf"})

	if !slices.Contains(args, "-dEmbedAllFonts=false") {
		t.Errorf("explicit non-embedding missing: %v", args)
	}
	if slices.Contains(args, "-dSubsetFonts=true") {
		t.Errorf("subsetting must not appear without embedding: %v", args)
	}
}

func TestDownsamplingDisabled(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Resolution = 72
	})
	args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

	for _, want := range []string{
		"-dDownsampleColorImages=false",
		"-dDownsampleGrayImages=false",
		"-dDownsampleMonoImages=false",
		"-dMonoImageResolution=300",
	} {
		if !slices.Contains(args, want) {
			t.Errorf("missing %q: %v", want, args)
		}
	}
}

func TestDownsamplingBicubic(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Resolution = 600
		r.Downsample = DownsampleBicubic
	})
	args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})

	for _, want := range []string{
		"-dDownsampleColorImages=true",
		"-dDownsampleGrayImages=true",
		"-dDownsampleMonoImages=true",
		"-dColorImageDownsampleType=/Bicubic",
		"-dGrayImageDownsampleType=/Bicubic",
		"-dMonoImageDownsampleType=/Bicubic",
		"-dMonoImageResolution=1200",
		"-dColorImageResolution=600",
		"-dGrayImageResolution=600",
	} {
		if !slices.Contains(args, want) {
			t.Errorf("missing %q: %v", want, args)
		}
	}
}

func TestAutoFilterDisabled(t *testing.T) {
	args := buildArgs(baseRequest(t, nil), nil, "output.pdf", []string{"in.ps"})
	for _, want := range []string{
		"-dAutoFilterColorImages=false",
		"-dAutoFilterGrayImages=false",
		"-dAutoFilterMonoImages=false",
		"-dColorImageFilter=/FlateEncode",
		"-dGrayImageFilter=/FlateEncode",
		"-dMonoImageFilter=/FlateEncode",
	} {
		if !slices.Contains(args, want) {
			t.Errorf("missing %q: %v", want, args)
		}
	}
}

// TestMonoResolutionBoundary pins the floor boundary: exactly 300 stays at
// 300; only above 300 is boosted.
func TestMonoResolutionBoundary(t *testing.T) {
	tests := []struct {
		base int
		want int
	}{
		{72, 300},
		{299, 300},
		{300, 300},
		{301, 1200},
		{600, 1200},
	}
	for _, tt := range tests {
		if got := monoResolution(tt.base); got != tt.want {
			t.Errorf("monoResolution(%d) = %d, want %d", tt.base, got, tt.want)
		}
	}
}

func TestPageGeometry(t *testing.T) {
	t.Run("rotation", func(t *testing.T) {
		args := buildArgs(baseRequest(t, func(r *Request) { r.Rotate = true }), nil, "output.pdf", []string{"in.ps"})
		if !slices.Contains(args, "-dAutoRotatePages=/PageByPage") {
			t.Errorf("missing per-page rotation: %v", args)
		}

		args = buildArgs(baseRequest(t, nil), nil, "output.pdf", []string{"in.ps"})
		if !slices.Contains(args, "-dAutoRotatePages=/None") {
			t.Errorf("missing rotation off: %v", args)
		}
	})

	t.Run("page range only when requested", func(t *testing.T) {
		args := buildArgs(baseRequest(t, nil), nil, "output.pdf", []string{"in.ps"})
		if hasToken(args, "FirstPage") || hasToken(args, "LastPage") {
			t.Errorf("full document must not emit range options: %v", args)
		}

		args = buildArgs(baseRequest(t, func(r *Request) {
			r.FirstPage = 2
			r.LastPage = 5
		}), nil, "output.pdf", []string{"in.ps"})
		if !slices.Contains(args, "-dFirstPage=2") || !slices.Contains(args, "-dLastPage=5") {
			t.Errorf("missing range options: %v", args)
		}
	})

	t.Run("orientation script", func(t *testing.T) {
		args := buildArgs(baseRequest(t, nil), nil, "output.pdf", []string{"in.ps"})
		if slices.Contains(args, "-c") {
			t.Errorf("auto orientation must not emit a script: %v", args)
		}

		args = buildArgs(baseRequest(t, func(r *Request) { r.Orientation = OrientationUpsideDown }), nil, "output.pdf", []string{"in.ps"})
		i := slices.Index(args, "-c")
		if i < 0 || i+2 >= len(args) {
			t.Fatalf("orientation script tokens missing: %v", args)
		}
		if args[i+1] != "<</Orientation 2>> setpagedevice" || args[i+2] != "-f" {
			t.Errorf("orientation tokens = %q %q", args[i+1], args[i+2])
		}
	})
}

func TestUnsetOrientationEmitsNoScript(t *testing.T) {
	// A literal request that never touches Orientation must not force one.
	req := &Request{
		Inputs:     []string{"in.ps"},
		OutputPath: "out.pdf",
		Format:     FormatPDF,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	args := buildArgs(req, nil, "output.pdf", []string{"in.ps"})
	if slices.Contains(args, "-c") || hasToken(args, "setpagedevice") {
		t.Errorf("unset orientation must not emit a script: %v", args)
	}
}

func TestOrientationTurns(t *testing.T) {
	tests := []struct {
		orientation Orientation
		want        int
	}{
		{OrientationPortrait, 0},
		{OrientationLandscape, 1},
		{OrientationUpsideDown, 2},
		{OrientationSeascape, 3},
	}
	for _, tt := range tests {
		if got := tt.orientation.turns(); got != tt.want {
			t.Errorf("turns(%d) = %d, want %d", int(tt.orientation), got, tt.want)
		}
	}
}

func TestOptionRendering(t *testing.T) {
	tests := []struct {
		opt  engineOption
		want string
	}{
		{flagOpt("PDFA"), "-dPDFA"},
		{boolOpt("EmbedAllFonts", true), "-dEmbedAllFonts=true"},
		{boolOpt("EmbedAllFonts", false), "-dEmbedAllFonts=false"},
		{intOpt("ColorImageResolution", 150), "-dColorImageResolution=150"},
		{strOpt("ProcessColorModel", "/DeviceGray"), "-sProcessColorModel=/DeviceGray"},
		{strOpt("ColorConversionStrategy", "/CMYK"), "-sColorConversionStrategy=/CMYK"},
		{strOpt("CompatibilityLevel", "1.4"), "-dCompatibilityLevel=1.4"},
	}
	for _, tt := range tests {
		if got := tt.opt.render(); got != tt.want {
			t.Errorf("render() = %q, want %q", got, tt.want)
		}
	}
}

func TestBuildArgsDeterministic(t *testing.T) {
	req := baseRequest(t, func(r *Request) {
		r.Grayscale = true
		r.Downsample = DownsampleAverage
	})
	a := buildArgs(req, nil, "output.pdf", []string{"in.ps"})
	b := buildArgs(req, nil, "output.pdf", []string{"in.ps"})
	if !slices.Equal(a, b) {
		t.Errorf("buildArgs is not deterministic:\n%v\n%v", a, b)
	}
}
