package encode

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/ir"
)

type RenderConfig struct {
	Color    bool
	colorSet bool
}

type RenderOption func(*RenderConfig)

func RenderColor(v bool) RenderOption {
	return func(c *RenderConfig) {
		c.Color = v
		c.colorSet = true
	}
}

// Render writes a human-readable view of a patch set. With color on (or
// auto-detected from a terminal writer), fields, removals and additions
// are highlighted and string-to-string changes show an inline character
// diff.
func Render(w io.Writer, ps *strain.PatchSet, opts ...RenderOption) error {
	cfg := &RenderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.colorSet {
		if f, ok := w.(*os.File); ok {
			cfg.Color = isatty.IsTerminal(f.Fd())
		}
	}
	field := fmt.Sprintf
	minus := fmt.Sprintf
	plus := fmt.Sprintf
	if cfg.Color {
		field = color.New(color.FgCyan, color.Bold).Sprintf
		minus = color.New(color.FgRed).Sprintf
		plus = color.New(color.FgGreen).Sprintf
	}

	if _, err := fmt.Fprintf(w, "%s %s (%s)\n", ps.Type, ps.ID, ps.At.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	for _, p := range ps.Patches {
		if _, err := fmt.Fprintf(w, "  %s\n", field("%s", p.Field)); err != nil {
			return err
		}
		if cfg.Color && p.Old.Kind == ir.StringKind && p.New.Kind == ir.StringKind {
			if err := renderStringDiff(w, p.Old.String, p.New.String, minus, plus); err != nil {
				return err
			}
			continue
		}
		oldJSON, err := ir.ToJSON(p.Old)
		if err != nil {
			return fmt.Errorf("%w: %v", strain.ErrSerialization, err)
		}
		newJSON, err := ir.ToJSON(p.New)
		if err != nil {
			return fmt.Errorf("%w: %v", strain.ErrSerialization, err)
		}
		if _, err := fmt.Fprintf(w, "    %s\n    %s\n",
			minus("- %s", oldJSON), plus("+ %s", newJSON)); err != nil {
			return err
		}
	}
	return nil
}

// renderStringDiff shows an inline character diff for string fields,
// with removed runs in the minus color and inserted runs in the plus
// color.
func renderStringDiff(w io.Writer, from, to string, minus, plus func(string, ...any) string) error {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if _, err := io.WriteString(w, "    "); err != nil {
		return err
	}
	for _, d := range diffs {
		var s string
		switch d.Type {
		case diffpatch.DiffDelete:
			s = minus("%s", d.Text)
		case diffpatch.DiffInsert:
			s = plus("%s", d.Text)
		default:
			s = d.Text
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
