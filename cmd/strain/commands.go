package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "strain").
		WithSynopsis("strain [opts] command [opts]").
		WithDescription("strain is a tool for working with field level patches of structured documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return strainMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			ApplyCommand(cfg),
			InvertCommand(cfg),
			ShowCommand(cfg),
			LogCommand(cfg))
}

func strainMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff <a> <b>").
		WithDescription("diff two documents of the same type, writing a patch set").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("apply").
		WithAliases("a", "ap").
		WithOpts(opts...).
		WithSynopsis("apply [-reverse] <patchset> <doc>").
		WithDescription("apply a patch set to a document, writing the result").
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
	cfg.Apply = cmd
	return cmd
}

func InvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InvertConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("invert").
		WithAliases("i", "inv").
		WithSynopsis("invert <patchset>").
		WithDescription("invert a patch set").
		WithRun(func(cc *cli.Context, args []string) error {
			return invert(cfg, cc, args)
		})
	cfg.Invert = cmd
	return cmd
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("show").
		WithAliases("s", "sh").
		WithOpts(opts...).
		WithSynopsis("show [-color|-no-color] <patchset>").
		WithDescription("render a patch set for human reading").
		WithRun(func(cc *cli.Context, args []string) error {
			return show(cfg, cc, args)
		})
	cfg.Show = cmd
	return cmd
}

func LogCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LogConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("log").
		WithAliases("l").
		WithOpts(opts...).
		WithSynopsis("log [-where predicate] <historyfile>").
		WithDescription("list the patch sets in a history file, optionally filtered").
		WithRun(func(cc *cli.Context, args []string) error {
			return log(cfg, cc, args)
		})
	cfg.Log = cmd
	return cmd
}
