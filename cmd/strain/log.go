package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	strain "github.com/strain-format/strain"
)

func log(cfg *LogConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Log.Parse(cc, args)
	if err != nil {
		cfg.Log.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: log requires 1 arg, got %v", cli.ErrUsage, args)
	}
	entries, err := getLog(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	if cfg.Where != "" {
		h := strain.HistoryOf(entries...)
		if entries, err = h.Select(cfg.Where); err != nil {
			return fmt.Errorf("error filtering %s: %w", args[0], err)
		}
	}
	for i, ps := range entries {
		if i > 0 && cfg.Y {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		if err := writePatchSet(cfg.MainConfig, cc.Out, ps); err != nil {
			return err
		}
	}
	return nil
}
