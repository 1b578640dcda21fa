package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func invert(cfg *InvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Invert.Parse(cc, args)
	if err != nil {
		cfg.Invert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: invert requires 1 arg, got %v", cli.ErrUsage, args)
	}
	ps, err := getPatchSet(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	return writePatchSet(cfg.MainConfig, cc.Out, ps.Invert())
}
