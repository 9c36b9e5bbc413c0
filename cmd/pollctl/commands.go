// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-poll/auth"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List polls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			polls, err := a.manager.ListPolls(cmd.Context())
			if err != nil {
				return err
			}
			return printPollList(cmd.OutOrStdout(), polls)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <poll-id>",
		Short: "Show a poll and its vote ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pe, err := a.manager.GetPoll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printPoll(cmd.OutOrStdout(), pe)
		},
	}
}

func newResultsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "results <poll-id>",
		Short: "Compute results from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.manager.Aggregate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func newCloseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "close <poll-id>",
		Short: "Close a poll for voting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.ClosePoll(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed %s\n", args[0])
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <poll-id> <text>...",
		Short: "Attach a summary to a closed poll",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if err := a.manager.AttachSummary(cmd.Context(), args[0], text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "summary attached to %s\n", args[0])
			return nil
		},
	}
}

func newAdminKeyCmd(a *app) *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "admin-key <poll-id>",
		Short: "Print the admin key for a poll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if salt == "" {
				salt = os.Getenv("ADMIN_KEY_SALT")
			}
			if salt == "" {
				return errNoSalt
			}
			if _, err := a.manager.GetPoll(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(args[0], salt))
			return nil
		},
	}
	cmd.Flags().StringVar(&salt, "admin-salt", "", "admin key salt (prefer env)")

	return cmd
}
