package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"canvas-syllabus/internal/domain"
)

func usersCmd(a *app) *cobra.Command {
	var remove string

	c := &cobra.Command{
		Use:   "users",
		Short: "List remembered sign-ins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.store()
			if remove != "" {
				if err := store.Remove(remove); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", remove)
				return nil
			}

			users, err := store.List()
			if err != nil {
				return err
			}
			current := ""
			if u, err := store.Current(); err == nil {
				current = u.Key()
			}
			printUsers(cmd.OutOrStdout(), users, current)
			return nil
		},
	}
	c.Flags().StringVar(&remove, "remove", "", "Forget the sign-in with this key (domain|user id)")
	return c
}

func printUsers(w io.Writer, users []domain.SignedInUser, current string) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users signed in")
		return
	}
	for _, u := range users {
		mark := " "
		if u.Key() == current {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-40s %-24s %s\n", mark, u.Key(), u.User.Name, u.SignedInAt.Format(time.RFC3339))
	}
}
