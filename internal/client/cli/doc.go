// Package cli provides the userdir command-line client.
//
// It wires configuration, the REST client and the user directory into two
// front ends sharing one App: an interactive session and one-shot cobra
// subcommands.
//
// The interactive session is line driven. Each line is an event interpreted
// against the current Mode:
//   - Idle: a command (help, load, show, add, edit, delete, exit)
//   - Confirming{id}: y/yes deletes the user, anything else declines
//   - Prompting{id, field}: the answer for username, then email; an empty
//     answer keeps the pre-filled value while editing, and ":cancel" or end
//     of input abandons the flow with nothing sent
//
// Errors are printed as one operator-readable line and never end the
// session.
package cli
