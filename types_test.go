package ghostconv

import (
	"errors"
	"testing"
)

func TestFormatExt(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPDF, ".pdf"},
		{FormatPS, ".ps"},
		{FormatEPS, ".eps"},
		{FormatPNG, ".png"},
		{FormatJPEG, ".jpg"},
		{FormatBMP, ".bmp"},
		{FormatTIFF, ".tif"},
	}
	for _, tt := range tests {
		if got := tt.format.Ext(); got != tt.want {
			t.Errorf("%s.Ext() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatPaginates(t *testing.T) {
	for _, f := range []Format{FormatEPS, FormatPNG, FormatJPEG, FormatBMP, FormatTIFF} {
		if !f.paginates() {
			t.Errorf("%s.paginates() = false, want true", f)
		}
	}
	for _, f := range []Format{FormatPDF, FormatPS} {
		if f.paginates() {
			t.Errorf("%s.paginates() = true, want false", f)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	valid := func() Request {
		return Request{
			Inputs:     []string{"in.pdf"},
			OutputPath: "out.pdf",
			Format:     FormatPDF,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"valid", func(*Request) {}, nil},
		{"no inputs", func(r *Request) { r.Inputs = nil }, ErrNoInput},
		{"no output", func(r *Request) { r.OutputPath = "" }, ErrNoOutput},
		{"bad format", func(r *Request) { r.Format = Format(99) }, ErrInvalidFormat},
		{"bad policy", func(r *Request) { r.Policy = CollisionPolicy(99) }, ErrInvalidPolicy},
		{"negative resolution", func(r *Request) { r.Resolution = -1 }, ErrInvalidResolution},
		{"resolution too high", func(r *Request) { r.Resolution = 2401 }, ErrInvalidResolution},
		{"bad pdf version", func(r *Request) { r.PDFVersion = "2.0" }, ErrInvalidFormat},
		{"negative first page", func(r *Request) { r.FirstPage = -1 }, ErrInvalidPageRange},
		{"inverted range", func(r *Request) { r.FirstPage = 5; r.LastPage = 2 }, ErrInvalidPageRange},
		{"forced orientation", func(r *Request) { r.Orientation = OrientationSeascape }, nil},
		{"orientation out of range", func(r *Request) { r.Orientation = Orientation(9) }, ErrInvalidOrientation},
		{"negative orientation", func(r *Request) { r.Orientation = Orientation(-1) }, ErrInvalidOrientation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestValidateDefaults(t *testing.T) {
	req := Request{
		Inputs:     []string{"in.pdf"},
		OutputPath: "out.pdf",
		Format:     FormatPDF,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Resolution != DefaultResolution {
		t.Errorf("Resolution = %d, want default %d", req.Resolution, DefaultResolution)
	}
	if req.PDFVersion != DefaultPDFVersion {
		t.Errorf("PDFVersion = %q, want default %q", req.PDFVersion, DefaultPDFVersion)
	}
}

func TestMetadataEmpty(t *testing.T) {
	var m *Metadata
	if !m.empty() {
		t.Error("nil metadata should be empty")
	}
	if !(&Metadata{}).empty() {
		t.Error("zero metadata should be empty")
	}
	if (&Metadata{Keywords: "a"}).empty() {
		t.Error("metadata with keywords should not be empty")
	}
}

func TestWithTimeoutPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

func TestCollisionPolicyString(t *testing.T) {
	tests := []struct {
		policy CollisionPolicy
		want   string
	}{
		{PolicyOverwrite, "overwrite"},
		{PolicyRename, "rename"},
		{PolicyMergeHead, "merge-head"},
		{PolicyMergeTail, "merge-tail"},
	}
	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
