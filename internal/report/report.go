// Package report renders comparison results for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pendergraft/ifacecheck/internal/compare"
)

// Palette holds the escape sequences used by the text format. Empty fields
// render plain text.
type Palette struct {
	Red    string
	Purple string
	Yellow string
	Bold   string
	Reset  string
}

// ANSIPalette returns the colored palette.
func ANSIPalette() Palette {
	return Palette{
		Red:    "\033[31m",
		Purple: "\033[35m",
		Yellow: "\033[33m",
		Bold:   "\033[1m",
		Reset:  "\033[m",
	}
}

// PlainPalette returns a palette without escape sequences.
func PlainPalette() Palette {
	return Palette{}
}

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Reporter writes results in one format.
type Reporter struct {
	w       io.Writer
	format  Format
	palette Palette
	strict  bool

	// one YAML stream so documents are separated by "---"
	yamlEnc *yaml.Encoder
}

// New creates a reporter. In strict mode the text format omits the DONE
// marker.
func New(w io.Writer, format Format, palette Palette, strict bool) *Reporter {
	return &Reporter{
		w:       w,
		format:  format,
		palette: palette,
		strict:  strict,
	}
}

// Result writes every finding of one comparison.
func (r *Reporter) Result(res *compare.Result) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		if r.yamlEnc == nil {
			r.yamlEnc = yaml.NewEncoder(r.w)
			r.yamlEnc.SetIndent(2)
		}
		return r.yamlEnc.Encode(res)
	}

	for _, f := range res.Findings {
		if err := r.finding(res.Target, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) finding(t compare.Target, f compare.Finding) error {
	p := r.palette
	var err error
	switch f.Kind {
	case compare.KindMismatch:
		_, err = fmt.Fprintf(r.w, "%sPROBLEM LINE FOUND! %s\n%sInterface '%s' in %s doesn't match %s %s\n%s%s %s\n",
			p.Red, p.Reset,
			p.Purple, t.Interface, t.CallerPath, t.CalledPath, p.Reset,
			p.Bold, f.Line, p.Reset)
	case compare.KindPossibleFalsePositive:
		_, err = fmt.Fprintf(r.w, "likely a false positive, but check this interface definition in %s:\n%s%s %s\n",
			t.CallerPath,
			p.Bold, f.Line, p.Reset)
	case compare.KindUnused:
		_, err = fmt.Fprintf(r.w, "\n%sPROBLEM LINE FOUND! %s\n%sFunction '%s' in interface %s and contract %s is never used %s\n%s%s %s\n",
			p.Red, p.Reset,
			p.Yellow, f.Function, t.Interface, t.CallerPath, p.Reset,
			p.Bold, f.Line, p.Reset)
	default:
		err = fmt.Errorf("unknown finding kind %q", f.Kind)
	}
	return err
}

// Done finishes the report. The text format gets a DONE marker unless
// strict.
func (r *Reporter) Done() error {
	if r.yamlEnc != nil {
		err := r.yamlEnc.Close()
		r.yamlEnc = nil
		return err
	}
	if r.strict || r.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintln(r.w, "DONE")
	return err
}

// CompilerFailure writes the message printed when the compiler reported an
// error, followed by its stderr.
func (r *Reporter) CompilerFailure(compiler, stderr string) error {
	_, err := fmt.Fprintf(r.w, "== Error found while using %s to extract correct external interface. Quitting! ==\n%s\n", compiler, stderr)
	return err
}

// InterfaceNotFound writes the message printed for an unknown interface name.
func (r *Reporter) InterfaceNotFound() error {
	_, err := fmt.Fprintln(r.w, "Cannot find this interface name. Typo?")
	return err
}
