package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// Users writes the count line and an aligned table of users. An empty list
// prints a placeholder instead of the table.
func (f *Formatter) Users(w io.Writer, users []models.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users yet. Type 'load' to refresh.")
		return err
	}

	if _, err := fmt.Fprintln(w, f.Sprintf("%d user(s)", len(users))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, f.Timestamp(u.CreatedAt))
	}
	return tw.Flush()
}

// User writes one user as labelled lines.
func (f *Formatter) User(w io.Writer, u models.User) error {
	_, err := fmt.Fprintf(w, "ID:       %d\nUsername: %s\nEmail:    %s\nCreated:  %s\n",
		u.ID, u.Username, u.Email, f.Timestamp(u.CreatedAt))
	return err
}
