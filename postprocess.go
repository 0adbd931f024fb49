package ghostconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/ghostware/go-ghostconv/internal/fileutil"
)

// PostProcessJob describes document-level finishing of a produced PDF.
type PostProcessJob struct {
	// Path is the finalized PDF; it is rewritten in place.
	Path string

	// MergePath is the escaped copy of a pre-existing output to merge with,
	// or empty when no merge was requested.
	MergePath string

	// ExistingFirst places the escaped copy's pages before the new
	// document's pages (merge-tail). When false the new document leads
	// (merge-head).
	ExistingFirst bool

	Metadata *Metadata
	Security *Security

	// WorkDir is scratch space for the second engine pass; it lives inside
	// the run's working area and is destroyed with it.
	WorkDir string
}

// needed reports whether the job would change the document at all.
func (j *PostProcessJob) needed() bool {
	return j.MergePath != "" || !j.Metadata.empty() || j.Security != nil
}

// PostProcessor applies page-level merge, metadata, and encryption to PDF
// output. Injectable so tests and alternate engines can substitute it.
type PostProcessor interface {
	Process(ctx context.Context, job PostProcessJob) error
}

// Compile-time interface check.
var _ PostProcessor = (*enginePostProcessor)(nil)

// enginePostProcessor implements PostProcessor as a second pdfwrite pass
// through the (guarded) engine: merge is two source files in sequence,
// metadata travels as a pdfmarks DOCINFO record, and encryption as the
// engine's 128-bit security options.
type enginePostProcessor struct {
	renderer Renderer
}

// Process rewrites job.Path according to the job. No-op jobs return nil
// without touching the file.
func (p *enginePostProcessor) Process(ctx context.Context, job PostProcessJob) error {
	if !job.needed() {
		return nil
	}

	tmpOut := filepath.Join(job.WorkDir, "post-"+ulid.Make().String()+".pdf")

	args := []string{
		"-sDEVICE=pdfwrite",
		"-q", "-dNOPAUSE", "-dBATCH", "-dSAFER",
	}
	args = append(args, securityArgs(job.Security)...)
	args = append(args, "-sOutputFile="+tmpOut)

	if job.MergePath != "" {
		if job.ExistingFirst {
			args = append(args, job.MergePath, job.Path)
		} else {
			args = append(args, job.Path, job.MergePath)
		}
	} else {
		args = append(args, job.Path)
	}

	if !job.Metadata.empty() {
		marksPath, err := writePDFMarks(job.WorkDir, job.Metadata)
		if err != nil {
			return err
		}
		args = append(args, marksPath)
	}

	if err := p.renderer.Invoke(ctx, args); err != nil {
		return fmt.Errorf("%w: %v", ErrPostProcess, err)
	}

	if err := fileutil.MoveFile(tmpOut, job.Path); err != nil {
		return fmt.Errorf("%w: replacing output: %v", ErrPostProcess, err)
	}
	return nil
}

// PDF permission bits for revision-3 security. Bits outside the flags below
// are reserved and set.
const (
	permBase       = -0xF40 // 0xFFFFF0C0 as int32: reserved bits set, all actions denied
	permPrint      = 1 << 2
	permModify     = 1 << 3
	permCopy       = 1 << 4
	permAnnotate   = 1 << 5
	permAccessible = 1 << 9
	permAssemble   = 1 << 10
	permPrintHiRes = 1 << 11
)

// securityArgs renders the engine's encryption options: 128-bit,
// revision 3, with a permission mask derived from the allow flags.
func securityArgs(sec *Security) []string {
	if sec == nil {
		return nil
	}

	perms := int32(permBase)
	if sec.AllowPrint {
		perms |= permPrint | permPrintHiRes
	}
	if sec.AllowCopy {
		perms |= permCopy | permAccessible
	}
	if sec.AllowModify {
		perms |= permModify | permAnnotate | permAssemble
	}

	args := []string{
		"-dEncryptionR=3",
		"-dKeyLength=128",
		"-dPermissions=" + strconv.Itoa(int(perms)),
	}
	if sec.OwnerPassword != "" {
		args = append(args, "-sOwnerPassword="+sec.OwnerPassword)
	}
	if sec.UserPassword != "" {
		args = append(args, "-sUserPassword="+sec.UserPassword)
	}
	return args
}

// writePDFMarks writes a pdfmarks file carrying the DOCINFO record.
func writePDFMarks(dir string, meta *Metadata) (string, error) {
	var b strings.Builder
	b.WriteString("[")
	writeMark(&b, "Title", meta.Title)
	writeMark(&b, "Author", meta.Author)
	writeMark(&b, "Subject", meta.Subject)
	writeMark(&b, "Keywords", meta.Keywords)
	writeMark(&b, "Creator", meta.Creator)
	b.WriteString(" /DOCINFO pdfmark\n")

	path := filepath.Join(dir, "pdfmarks")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("%w: writing pdfmarks: %v", ErrPostProcess, err)
	}
	return path, nil
}

// writeMark appends one DOCINFO key when the value is set.
func writeMark(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, " /%s (%s)", key, escapePSString(value))
}

// escapePSString escapes PostScript string delimiters.
func escapePSString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
