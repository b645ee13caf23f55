// Command qored loads a JSON AST fixture (SPEC_FULL.md §6 — this core
// consumes an AST, it never lexes or parses source text) and evaluates
// it against a fresh Program, printing any uncaught exception.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/qorelang/qcore/eval"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/program"
	"github.com/qorelang/qcore/signalbridge"
)

var version string

// Exit codes mirror SPEC_FULL.md §6: 0 clean run, 1 uncaught exception,
// 2 usage/load error.
const (
	exitOK         = 0
	exitUncaught   = 1
	exitUsageError = 2
)

type options struct {
	Config  string `long:"config" description:"YAML file of program options" value-name:"config_file"`
	Help    bool   `long:"help" description:"Show this help"`
	Version bool   `long:"version" description:"Show this version"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] fixture.json"
	args, err := parser.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		return exitOK
	}
	if opts.Version {
		fmt.Println(version)
		return exitOK
	}
	if len(args) > 1 {
		parser.WriteHelp(os.Stdout)
		return exitUsageError
	}

	progOpts := program.DefaultOptions()
	if opts.Config != "" {
		data, err := os.ReadFile(opts.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		progOpts, err = program.ParseOptions(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	}

	p := program.New(progOpts)
	slot, err := p.Spawn()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	ctx := p.NewContext(slot)

	bridge := signalbridge.New()
	defer bridge.Exit()

	if len(args) == 0 {
		if !isTTY(os.Stdin) {
			parser.WriteHelp(os.Stdout)
			return exitUsageError
		}
		return runREPL(ctx, bridge)
	}

	fixtureData, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	root, err := LoadFixture(fixtureData)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}

	result, evalErr := eval.Eval(root, ctx)
	if evalErr != nil {
		printException(evalErr)
		return exitUncaught
	}
	if isTTY(os.Stdout) {
		pp.Println(result)
	} else {
		fmt.Println(result.AsString())
	}
	return exitOK
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printException(err error) {
	out := colorable.NewColorableStderr()
	if exc, ok := err.(*exception.Exception); ok {
		fmt.Fprintln(out, exception.FormatChain(exc))
		return
	}
	fmt.Fprintln(out, err)
}
