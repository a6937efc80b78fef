package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/userdir/internal/client/display"
	"github.com/dmitrijs2005/userdir/internal/client/services"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// CancelToken aborts a prompt flow without sending anything.
const CancelToken = ":cancel"

type App struct {
	dir  services.Directory
	view *display.Formatter
	log  logging.Logger

	in          *bufio.Reader
	out         io.Writer
	interactive bool

	mode  Mode
	draft *draft
}

// NewApp wires the directory into a line-driven UI reading from in and
// writing operator output to out.
func NewApp(dir services.Directory, view *display.Formatter, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}
	return &App{
		dir:         dir,
		view:        view,
		log:         log,
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
		mode:        Idle(),
	}
}

// Mode returns the current interaction mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Prompt is the text shown before reading the next line in the current mode.
func (a *App) Prompt() string {
	switch a.mode.Kind {
	case ModeConfirming:
		return fmt.Sprintf("Delete user %d? This cannot be undone. [y/N] ", a.mode.ID)
	case ModePrompting:
		label := "Username"
		if a.mode.Field == fieldEmail {
			label = "Email"
		}
		if a.draft != nil && a.draft.editing {
			return fmt.Sprintf("%s [%s]: ", label, a.draft.values[a.mode.Field])
		}
		return label + ": "
	}
	if !a.interactive {
		return ""
	}
	return "userdir> "
}

// HandleLine interprets one input line against the current mode. quit is
// true when the operator asked to leave. err is the outcome of the operation
// the line triggered, already reported to the operator.
func (a *App) HandleLine(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimRight(line, "\r\n")

	switch a.mode.Kind {
	case ModeConfirming:
		return false, a.answerConfirm(ctx, line)
	case ModePrompting:
		return false, a.answerPrompt(ctx, line)
	}
	return a.command(ctx, line)
}

// HandleEOF ends input. A pending confirmation or prompt is abandoned with
// nothing sent.
func (a *App) HandleEOF(ctx context.Context) {
	if a.mode.Kind != ModeIdle {
		a.abort()
	}
}

func (a *App) command(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		a.println("Available commands: (l)oad, show <id>, add [username email], edit <id>, delete <id>, exit")
		return false, nil

	case "l", "load", "list":
		return false, a.Load(ctx)

	case "show":
		id, err := a.parseID(cmd, args)
		if err != nil {
			return false, err
		}
		return false, a.Show(ctx, id)

	case "add":
		if len(args) == 2 {
			return false, a.submitAdd(ctx, args[0], args[1])
		}
		a.BeginAdd()
		return false, nil

	case "edit":
		id, err := a.parseID(cmd, args)
		if err != nil {
			return false, err
		}
		return false, a.BeginEdit(ctx, id, "", "")

	case "delete":
		id, err := a.parseID(cmd, args)
		if err != nil {
			return false, err
		}
		a.BeginDelete(id)
		return false, nil

	case "exit", "quit":
		a.println("Bye!")
		return true, nil
	}

	a.println("Unknown command:", cmd, "(type 'help' for commands)")
	return false, nil
}

func (a *App) parseID(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		err := fmt.Errorf("usage: %s <id>", cmd)
		a.println("Usage:", cmd, "<id>")
		return 0, err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		err = fmt.Errorf("invalid user id %q", args[0])
		a.println(fmt.Sprintf("Invalid user id %q.", args[0]))
		return 0, err
	}
	return id, nil
}

// Load refreshes the list from the server and renders it. On failure the
// previous list stays as it was.
func (a *App) Load(ctx context.Context) error {
	if err := a.dir.Load(ctx); err != nil {
		return a.fail(ctx, "load users", err)
	}
	return a.view.Users(a.out, a.dir.Users())
}

// Show fetches and renders a single user.
func (a *App) Show(ctx context.Context, id int64) error {
	u, err := a.dir.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, fmt.Sprintf("fetch user %d", id), err)
	}
	return a.view.User(a.out, u)
}

// BeginAdd starts prompting for a new user's fields.
func (a *App) BeginAdd() {
	a.draft = newDraft(false, "", "")
	a.mode = Prompting(0, fieldUsername)
}

// BeginEdit fetches the user for pre-fill and starts prompting. Non-empty
// username or email replace the fetched values as the pre-fill.
func (a *App) BeginEdit(ctx context.Context, id int64, username, email string) error {
	u, err := a.dir.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, fmt.Sprintf("fetch user %d", id), err)
	}
	if username == "" {
		username = u.Username
	}
	if email == "" {
		email = u.Email
	}
	a.draft = newDraft(true, username, email)
	a.mode = Prompting(id, fieldUsername)
	return nil
}

// BeginDelete asks for confirmation before deleting id.
func (a *App) BeginDelete(id int64) {
	a.mode = Confirming(id)
}

func (a *App) answerConfirm(ctx context.Context, line string) error {
	id := a.mode.ID
	a.mode = Idle()

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
	default:
		a.println("Deletion cancelled.")
		return nil
	}

	return a.deleteUser(ctx, id)
}

func (a *App) deleteUser(ctx context.Context, id int64) error {
	if err := a.dir.Delete(ctx, id); err != nil {
		return a.fail(ctx, fmt.Sprintf("delete user %d", id), err)
	}
	a.println(fmt.Sprintf("User %d deleted.", id))
	return nil
}

func (a *App) answerPrompt(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == CancelToken {
		a.abort()
		return nil
	}

	a.draft.answer(a.mode.Field, line)
	if next, ok := nextField(a.mode.Field); ok {
		a.mode = Prompting(a.mode.ID, next)
		return nil
	}

	id, d := a.mode.ID, a.draft
	a.mode, a.draft = Idle(), nil

	username, email := d.values[fieldUsername], d.values[fieldEmail]
	if !d.editing {
		return a.submitAdd(ctx, username, email)
	}
	return a.submitUpdate(ctx, id, username, email)
}

func (a *App) submitAdd(ctx context.Context, username, email string) error {
	u, err := a.dir.Add(ctx, username, email)
	if err != nil {
		return a.fail(ctx, "add user", err)
	}
	a.println(fmt.Sprintf("User %q added with id %d.", u.Username, u.ID))
	return nil
}

func (a *App) submitUpdate(ctx context.Context, id int64, username, email string) error {
	if _, err := a.dir.Update(ctx, id, username, email); err != nil {
		return a.fail(ctx, fmt.Sprintf("update user %d", id), err)
	}
	a.println(fmt.Sprintf("User %d updated.", id))
	return nil
}

func (a *App) abort() {
	a.mode, a.draft = Idle(), nil
	a.println("Cancelled.")
}

// fail reports err to the operator and returns it wrapped with the message.
func (a *App) fail(ctx context.Context, action string, err error) error {
	a.log.Debug(ctx, "operation failed", "action", action, "error", err)
	werr := display.ErrorWrapper(action, err)
	a.println(werr.Error())
	return werr
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
