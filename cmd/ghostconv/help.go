package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ghostconv <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert documents and images between formats")
	fmt.Fprintln(w, "  profile    Print a conversion profile as YAML")
	fmt.Fprintln(w, "  doctor     Check external engine availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ghostconv help convert' for details.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ghostconv convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert documents (PDF, PS, EPS, SVG, HTML, Markdown) and images to")
	fmt.Fprintln(w, "vector or raster formats. Several inputs with -o <file> merge into one")
	fmt.Fprintln(w, "document; with -o <dir> each input converts separately (batch mode).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -p, --profile <name>       Conversion profile name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers in batch mode (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Format:")
	fmt.Fprintln(w, "  -f, --format <s>           pdf, ps, eps, png, jpeg, bmp, tiff")
	fmt.Fprintln(w, "      --pdf-profile <s>      default, a (PDF/A), x (PDF/X)")
	fmt.Fprintln(w, "      --pdf-version <s>      1.2 through 1.7")
	fmt.Fprintln(w, "  -r, --resolution <n>       Resolution in DPI")
	fmt.Fprintln(w, "      --grayscale            Convert colors to grayscale")
	fmt.Fprintln(w, "      --embed-fonts          Embed and subset fonts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pages:")
	fmt.Fprintln(w, "      --rotate               Auto-rotate pages")
	fmt.Fprintln(w, "      --orientation <n>      Force orientation (0-3 quarter turns, -1 = auto)")
	fmt.Fprintln(w, "      --first-page <n>       First page of the range")
	fmt.Fprintln(w, "      --last-page <n>        Last page of the range")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --compression <s>      flate, dct, lzw")
	fmt.Fprintln(w, "      --downsample <s>       none, average, bicubic, subsample")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Existing output:")
	fmt.Fprintln(w, "      --on-collision <s>     overwrite, rename, merge-head, merge-tail")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF finishing:")
	fmt.Fprintln(w, "      --title <s>            Document title")
	fmt.Fprintln(w, "      --author <s>           Document author")
	fmt.Fprintln(w, "      --subject <s>          Document subject")
	fmt.Fprintln(w, "      --keywords <s>         Document keywords")
	fmt.Fprintln(w, "      --owner-password <s>   Encrypt with owner password")
	fmt.Fprintln(w, "      --user-password <s>    Encrypt with user password")
	fmt.Fprintln(w, "      --allow-print          Permit printing")
	fmt.Fprintln(w, "      --allow-copy           Permit copying")
	fmt.Fprintln(w, "      --allow-modify         Permit modification")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "      --delete-input         Delete inputs after conversion")
	fmt.Fprintln(w, "  -q, --quiet                Suppress non-error output")
	fmt.Fprintln(w, "  -v, --verbose              Verbose diagnostics")
}
