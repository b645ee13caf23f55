package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/qorelang/qcore/eval"
	"github.com/qorelang/qcore/signalbridge"
)

// runREPL is qored's optional interactive loop (SPEC_FULL.md §6): each
// line is a JSON AST fixture expression, evaluated against the shared
// Context so locals declared by one line persist to the next. Ctrl-C
// doesn't kill the process — the signal bridge turns it into a
// RequestCancel on the evaluating thread, which Eval observes at its next
// node and turns into a CANCELLED exception, same as any other escaping
// exception (spec §4.9/§4.10's signal-to-cancellation path).
//
// Stdin stays in cooked mode deliberately: cooked mode is what makes the
// terminal driver raise SIGINT for Ctrl-C in the first place, which is
// what the signal bridge intercepts. golang.org/x/term is used here only
// to size the banner (term.GetSize); the caller (run in main.go) has
// already checked that stdin is a terminal via isatty.
func runREPL(ctx *eval.Context, bridge *signalbridge.Bridge) int {
	fd := int(os.Stdin.Fd())
	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}
	fmt.Printf("qored REPL (terminal %dx%d, Ctrl-C cancels the current evaluation, Ctrl-D exits)\n", width, height)

	bridge.Install(os.Interrupt, ctx.Program, func(os.Signal) {
		ctx.Thread.RequestCancel()
	})
	defer bridge.Remove(os.Interrupt)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("qored> ")
		if !scanner.Scan() {
			fmt.Println()
			return exitOK
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		root, err := LoadFixture([]byte(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		v, err := eval.Eval(root, ctx)
		if err != nil {
			printException(err)
			continue
		}
		pp.Println(v)
	}
}
