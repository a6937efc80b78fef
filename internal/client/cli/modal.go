package cli

import "fmt"

// ModeKind tags the REPL's interaction mode.
type ModeKind int

const (
	// ModeIdle reads commands.
	ModeIdle ModeKind = iota
	// ModeConfirming waits for a yes/no answer before deleting ID.
	ModeConfirming
	// ModePrompting waits for the value of Field for user ID (0 while adding).
	ModePrompting
)

// Prompted fields, in the order they are asked.
const (
	fieldUsername = "username"
	fieldEmail    = "email"
)

// Mode is the REPL's current interaction mode. Only the fields that belong
// to Kind are meaningful.
type Mode struct {
	Kind  ModeKind
	ID    int64
	Field string
}

func Idle() Mode { return Mode{Kind: ModeIdle} }

func Confirming(id int64) Mode { return Mode{Kind: ModeConfirming, ID: id} }

func Prompting(id int64, field string) Mode {
	return Mode{Kind: ModePrompting, ID: id, Field: field}
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeConfirming:
		return fmt.Sprintf("Confirming{%d}", m.ID)
	case ModePrompting:
		return fmt.Sprintf("Prompting{%d, %s}", m.ID, m.Field)
	}
	return "Idle"
}

// draft collects prompt answers for an add or edit flow. values starts with
// the pre-fill; answers replace them as they come in.
type draft struct {
	editing bool
	values  map[string]string
}

func newDraft(editing bool, username, email string) *draft {
	return &draft{
		editing: editing,
		values:  map[string]string{fieldUsername: username, fieldEmail: email},
	}
}

// answer records the reply for field. While editing, an empty reply keeps
// the pre-filled value.
func (d *draft) answer(field, reply string) {
	if reply == "" && d.editing {
		return
	}
	d.values[field] = reply
}

func nextField(field string) (string, bool) {
	if field == fieldUsername {
		return fieldEmail, true
	}
	return "", false
}
