package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// maxLineSize bounds one input line in the interactive session.
const maxLineSize = 1 << 20

// lineHandler is the minimal surface the REPL needs. The real App type
// satisfies it; tests can provide a lightweight stub.
type lineHandler interface {
	Prompt() string
	HandleLine(ctx context.Context, line string) (bool, error)
	HandleEOF(ctx context.Context)
}

// runREPL reads lines from scanner and feeds them to h until h asks to quit
// or input ends. A read error is reported to w and ends input like EOF.
// Before each read the handler's prompt, if any, is written
// to w.
//
// Errors returned by the handler are ignored here; the handler reports them
// to the operator itself.
func runREPL(ctx context.Context, h lineHandler, scanner *bufio.Scanner, w io.Writer) {
	for {
		if p := h.Prompt(); p != "" {
			fmt.Fprint(w, p)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintln(w, "Input error:", err)
			}
			h.HandleEOF(ctx)
			return
		}
		if quit, _ := h.HandleLine(ctx, scanner.Text()); quit {
			return
		}
	}
}

// Run starts the interactive session and blocks until the operator exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	if a.interactive {
		a.println("userdir: user directory client (type 'help' for commands)")
	}
	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	runREPL(ctx, a, scanner, a.out)
}

// Drive feeds input lines to a pending confirmation or prompt flow until it
// completes, and returns the outcome of the operation it ended with. End of
// input abandons the flow.
func (a *App) Drive(ctx context.Context) error {
	for a.mode.Kind != ModeIdle {
		fmt.Fprint(a.out, a.Prompt())
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			a.HandleEOF(ctx)
			return nil
		}
		if _, herr := a.HandleLine(ctx, line); herr != nil {
			return herr
		}
		if err != nil {
			a.HandleEOF(ctx)
			return nil
		}
	}
	return nil
}
