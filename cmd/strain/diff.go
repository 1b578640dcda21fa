package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/encode"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := getDoc(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	b, err := getDoc(cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	ps, err := strain.Diff(a, b)
	if err != nil {
		return fmt.Errorf("error diffing %s and %s: %w", args[0], args[1], err)
	}
	if ps.IsEmpty() {
		return nil
	}
	if cfg.Render {
		if err := encode.Render(cc.Out, ps); err != nil {
			return err
		}
	} else if err := writePatchSet(cfg.MainConfig, cc.Out, ps); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
