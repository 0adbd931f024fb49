package ghostconv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPostProcessJobNeeded(t *testing.T) {
	tests := []struct {
		name string
		job  PostProcessJob
		want bool
	}{
		{"empty", PostProcessJob{}, false},
		{"merge", PostProcessJob{MergePath: "/tmp/escape.pdf"}, true},
		{"metadata", PostProcessJob{Metadata: &Metadata{Author: "a"}}, true},
		{"empty metadata", PostProcessJob{Metadata: &Metadata{}}, false},
		{"security", PostProcessJob{Security: &Security{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.needed(); got != tt.want {
				t.Errorf("needed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecurityArgsNil(t *testing.T) {
	if got := securityArgs(nil); got != nil {
		t.Errorf("securityArgs(nil) = %v, want nil", got)
	}
}

func TestSecurityArgsPermissions(t *testing.T) {
	tests := []struct {
		name string
		sec  Security
		want string
	}{
		{"deny all", Security{}, "-dPermissions=-3904"},
		{"print", Security{AllowPrint: true}, "-dPermissions=-1852"},
		{"copy", Security{AllowCopy: true}, "-dPermissions=-3376"},
		{"modify", Security{AllowModify: true}, "-dPermissions=-2840"},
		{
			"all",
			Security{AllowPrint: true, AllowCopy: true, AllowModify: true},
			"-dPermissions=-260",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := securityArgs(&tt.sec)
			found := false
			for _, a := range args {
				if a == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("securityArgs(%+v) = %v, want %s", tt.sec, args, tt.want)
			}
		})
	}
}

func TestSecurityArgsEncryptionAndPasswords(t *testing.T) {
	args := securityArgs(&Security{OwnerPassword: "owner", UserPassword: "user"})

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-dEncryptionR=3",
		"-dKeyLength=128",
		"-sOwnerPassword=owner",
		"-sUserPassword=user",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("securityArgs missing %s in %v", want, args)
		}
	}
}

func TestWritePDFMarks(t *testing.T) {
	dir := t.TempDir()
	meta := &Metadata{
		Title:  "Report (final)",
		Author: "Acme",
	}

	path, err := writePDFMarks(dir, meta)
	if err != nil {
		t.Fatalf("writePDFMarks() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, `/Title (Report \(final\))`) {
		t.Errorf("pdfmarks %q should carry the escaped title", content)
	}
	if !strings.Contains(content, "/Author (Acme)") {
		t.Errorf("pdfmarks %q should carry the author", content)
	}
	if strings.Contains(content, "/Subject") {
		t.Errorf("pdfmarks %q should omit unset fields", content)
	}
	if !strings.Contains(content, "/DOCINFO pdfmark") {
		t.Errorf("pdfmarks %q should end with the DOCINFO record", content)
	}
}

func TestEscapePSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"(paren)", `\(paren\)`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapePSString(tt.in); got != tt.want {
			t.Errorf("escapePSString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnginePostProcessNoOp(t *testing.T) {
	renderer := &fakeRenderer{}
	p := &enginePostProcessor{renderer: renderer}

	if err := p.Process(context.Background(), PostProcessJob{Path: "/tmp/doc.pdf"}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if renderer.gotArgs != nil {
		t.Errorf("no-op job should not invoke the engine, got %v", renderer.gotArgs)
	}
}

func TestEnginePostProcessReplacesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(out, []byte("original"), 0o600); err != nil {
		t.Fatal(err)
	}

	renderer := &fakeRenderer{}
	p := &enginePostProcessor{renderer: renderer}
	job := PostProcessJob{
		Path:     out,
		Metadata: &Metadata{Title: "Doc"},
		WorkDir:  dir,
	}

	if err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rendered" {
		t.Errorf("output content = %q, want the second-pass result", data)
	}

	if !hasToken(renderer.gotArgs, "-sDEVICE=pdfwrite") {
		t.Errorf("args %v should select pdfwrite", renderer.gotArgs)
	}
	// The pdfmarks file follows the sources.
	last := renderer.gotArgs[len(renderer.gotArgs)-1]
	if filepath.Base(last) != "pdfmarks" {
		t.Errorf("last arg = %s, want the pdfmarks file", last)
	}
}

func TestEnginePostProcessMergeOrder(t *testing.T) {
	tests := []struct {
		name          string
		existingFirst bool
	}{
		{"existing first", true},
		{"new first", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "doc.pdf")
			merge := filepath.Join(dir, "escape.pdf")
			for _, p := range []string{out, merge} {
				if err := os.WriteFile(p, []byte("pdf"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			renderer := &fakeRenderer{}
			p := &enginePostProcessor{renderer: renderer}
			job := PostProcessJob{
				Path:          out,
				MergePath:     merge,
				ExistingFirst: tt.existingFirst,
				WorkDir:       dir,
			}
			if err := p.Process(context.Background(), job); err != nil {
				t.Fatalf("Process() error = %v", err)
			}

			outIdx, mergeIdx := -1, -1
			for i, a := range renderer.gotArgs {
				switch a {
				case out:
					outIdx = i
				case merge:
					mergeIdx = i
				}
			}
			if outIdx < 0 || mergeIdx < 0 {
				t.Fatalf("args %v should list both source files", renderer.gotArgs)
			}
			if tt.existingFirst && mergeIdx > outIdx {
				t.Errorf("args %v should place the escaped copy first", renderer.gotArgs)
			}
			if !tt.existingFirst && outIdx > mergeIdx {
				t.Errorf("args %v should place the new document first", renderer.gotArgs)
			}
		})
	}
}
