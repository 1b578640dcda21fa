package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/strain-format/strain/encode"
)

func show(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: show requires 1 arg, got %v", cli.ErrUsage, args)
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: must specify at most one of -color -no-color", cli.ErrUsage)
	}
	ps, err := getPatchSet(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	var opts []encode.RenderOption
	switch {
	case cfg.Color:
		opts = append(opts, encode.RenderColor(true))
	case cfg.NoColor:
		opts = append(opts, encode.RenderColor(false))
	}
	return encode.Render(cc.Out, ps, opts...)
}
