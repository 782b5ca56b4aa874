package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login NAME",
		Short: "Start a session as NAME",
		Long: `Start a session as NAME. The first login on a fresh install starts with
empty collections. Logging in again renames the current user.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("name must not be empty")
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			user := sess.store.Login(name)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.ID)
			return nil
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session; data is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.store.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
