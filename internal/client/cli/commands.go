package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/config"
	"github.com/dmitrijs2005/userdir/internal/client/display"
	"github.com/dmitrijs2005/userdir/internal/client/services"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

const (
	Name            = "userdir"
	Description     = "User directory client"
	LongDescription = "Lists, adds, edits and deletes users through the user REST API.\n" +
		"Run without a subcommand for an interactive session."
)

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// operator errors were already printed by the App
	var oe *display.OperatorError
	if !errors.As(err, &oe) {
		fmt.Fprintln(errOut, "Error:", err)
	}
	return 1
}

// NewRootCmd builds the command tree. The App is constructed once flags are
// parsed, in PersistentPreRunE, and shared by every subcommand.
func NewRootCmd() *cobra.Command {
	flags := &config.Flags{}
	var app *App

	rootCmd := &cobra.Command{
		Use:           Name,
		Short:         Description,
		Long:          LongDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Run(cmd.Context())
			return nil
		},
	}

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags.Register(rootCmd.PersistentFlags())

	current := func() *App { return app }
	rootCmd.AddCommand(listCmd(current))
	rootCmd.AddCommand(getCmd(current))
	rootCmd.AddCommand(addCmd(current))
	rootCmd.AddCommand(updateCmd(current))
	rootCmd.AddCommand(deleteCmd(current))

	return rootCmd
}

func newApp(cmd *cobra.Command, flags *config.Flags) (*App, error) {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.New(cmd.ErrOrStderr(), level)

	api, err := client.NewHTTPClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, log)
	if err != nil {
		return nil, err
	}
	log.Debug(cmd.Context(), "client configured", "api", cfg.APIBaseURL, "timeout", cfg.RequestTimeout, "locale", cfg.Locale)

	dir := services.NewDirectory(api, log)
	view := display.NewFormatter(cfg.Locale, nil)
	return NewApp(dir, view, cmd.InOrStdin(), cmd.OutOrStdout(), log), nil
}

func argID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func listCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "load"},
		Short:   "Load and list all users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Load(cmd.Context())
		},
	}
}

func getCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <user_id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args[0])
			if err != nil {
				return err
			}
			return app().Show(cmd.Context(), id)
		},
	}
}

func addCmd(app func() *App) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().submitAdd(cmd.Context(), username, email)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username, at least 2 characters")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")

	return cmd
}

func updateCmd(app func() *App) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "update <user_id>",
		Short: "Update a user; fields not given are prompted for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args[0])
			if err != nil {
				return err
			}
			a := app()
			if username != "" && email != "" {
				return a.submitUpdate(cmd.Context(), id, username, email)
			}
			if err := a.BeginEdit(cmd.Context(), id, username, email); err != nil {
				return err
			}
			return a.Drive(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "new email address")

	return cmd
}

func deleteCmd(app func() *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <user_id>",
		Short: "Delete a user after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args[0])
			if err != nil {
				return err
			}
			a := app()
			if yes {
				return a.deleteUser(cmd.Context(), id)
			}
			a.BeginDelete(id)
			return a.Drive(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
