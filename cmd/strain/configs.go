package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/document"
	"github.com/strain-format/strain/encode"
	"github.com/strain-format/strain/ir"
)

type MainConfig struct {
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	Type string `cli:"name=type desc='structure type name for loaded documents'"`

	Main *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Render bool `cli:"name=render desc='human readable output instead of wire form'"`

	Diff *cli.Command
}

type ApplyConfig struct {
	*MainConfig
	Reverse bool `cli:"name=reverse desc='apply the inverse of the patch set'"`

	Apply *cli.Command
}

type InvertConfig struct {
	*MainConfig

	Invert *cli.Command
}

type ShowConfig struct {
	*MainConfig
	Color   bool `cli:"name=color desc='render with color'"`
	NoColor bool `cli:"name=no-color desc='render without color'"`

	Show *cli.Command
}

type LogConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='expr predicate filtering entries'"`

	Log *cli.Command
}

func (cfg *MainConfig) typeName() string {
	if cfg.Type == "" {
		return "Document"
	}
	return cfg.Type
}

// yamlIO reports whether a file should be read or written as YAML, from
// the flags first and the extension second.
func (cfg *MainConfig) yamlIO(path string) bool {
	if cfg.Y {
		return true
	}
	if cfg.J {
		return false
	}
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(arg)
}

func getDoc(cfg *MainConfig, arg string) (*document.Document, error) {
	d, err := readInput(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", arg, err)
	}
	if cfg.yamlIO(arg) {
		if d, err = yaml.YAMLToJSON(d); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
	}
	doc, err := document.FromJSON(cfg.typeName(), d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return doc, nil
}

func getPatchSet(cfg *MainConfig, arg string) (*strain.PatchSet, error) {
	d, err := readInput(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", arg, err)
	}
	if cfg.yamlIO(arg) {
		return encode.FromYAML(d)
	}
	return encode.FromJSON(d)
}

// getLog reads a history file: a JSON array (or YAML list) of patch
// sets, oldest first.
func getLog(cfg *MainConfig, arg string) ([]*strain.PatchSet, error) {
	d, err := readInput(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", arg, err)
	}
	if cfg.yamlIO(arg) {
		if d, err = yaml.YAMLToJSON(d); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(d, &raws); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	res := make([]*strain.PatchSet, len(raws))
	for i, raw := range raws {
		ps, err := encode.FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s entry %d: %w", arg, i, err)
		}
		res[i] = ps
	}
	return res, nil
}

func writePatchSet(cfg *MainConfig, w io.Writer, ps *strain.PatchSet) error {
	var d []byte
	var err error
	if cfg.Y {
		d, err = encode.YAML(ps)
	} else {
		d, err = encode.JSON(ps)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(d); err != nil {
		return err
	}
	if !cfg.Y {
		_, err = w.Write([]byte("\n"))
	}
	return err
}

func writeValue(cfg *MainConfig, w io.Writer, v *ir.Value) error {
	d, err := ir.ToJSON(v)
	if err != nil {
		return err
	}
	if cfg.Y {
		if d, err = yaml.JSONToYAML(d); err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	}
	if _, err := w.Write(d); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
