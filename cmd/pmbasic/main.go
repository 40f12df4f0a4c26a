// Command pmbasic is the interactive front end: it wires the program
// store, variable table, evaluator, and desktop host together behind
// the command dispatcher and runs the read-eval-print loop described in
// the interpreter's command-layer design.
//
// Grounded on original_source/pmbasic.c's main(), with the option
// parsing switched from getopt to go-flags, matching the CLI style
// sqldef-sqldef's cmd/ binaries use.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/kevinboone/pmbasic/command"
	"github.com/kevinboone/pmbasic/deskhost"
	"github.com/kevinboone/pmbasic/eval"
	"github.com/kevinboone/pmbasic/internal/obs"
	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/vartable"
)

type options struct {
	File     string `short:"f" long:"file" description:"load a program from this file at startup"`
	SaveFile string `short:"s" long:"save-file" default:"pmbasic.pmb" description:"file SAVE and LOAD use as the persistence slot"`
	Trace    bool   `long:"trace" description:"enable debug-level tracing"`
	Version  bool   `long:"version" description:"print the version and exit"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(command.Version)
		return
	}

	obs.Init(opts.Trace)

	h := deskhost.New(os.Stdin, os.Stdout, opts.SaveFile)
	if err := h.EnterRaw(); err != nil {
		slog.Warn("could not enter raw terminal mode", "error", err)
	}
	defer h.Leave()

	prog := program.New()
	vars := vartable.New()
	ev := eval.New(prog, vars, h)
	disp := command.New(prog, ev, h)

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pmbasic: %v\n", err)
			os.Exit(1)
		}
		for _, b := range data {
			prog.AppendChar(b)
		}
	}

	runLoop(disp, h)
}

func runLoop(disp *command.Dispatcher, h *deskhost.Host) {
	for {
		h.OutputString(command.Prompt)
		line, err := h.ReadLine()
		if err != nil {
			return
		}

		if err := disp.Handle(line); err != nil {
			if err == command.Quit {
				return
			}
			h.OutputString(formatErr(err))
			h.OutputEOL()
		}
	}
}

func formatErr(err error) string {
	return err.Error()
}
