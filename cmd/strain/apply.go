package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	strain "github.com/strain-format/strain"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 args, got %v", cli.ErrUsage, args)
	}
	ps, err := getPatchSet(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		ps = ps.Invert()
	}
	doc, err := getDoc(cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	if err := strain.Apply(doc, ps); err != nil {
		return fmt.Errorf("error applying %s to %s: %w", args[0], args[1], err)
	}
	return writeValue(cfg.MainConfig, cc.Out, doc.Value())
}
