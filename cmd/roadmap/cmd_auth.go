package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"roadmap_backend/internal/client"
	"roadmap_backend/internal/study"

	"github.com/spf13/cobra"
)

func newSigninCmd(c *cli) *cobra.Command {
	var code, name string

	cmd := &cobra.Command{
		Use:   "signin <email-or-phone>",
		Short: "Sign in with a one-time code and save a display name",
		Long: `Requests a one-time code for the contact, verifies it and stores the
display name shown on the landing screen.

Missing --code or --name values are read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			issued, err := c.api.RequestCode(cmd.Context(), contact)
			if err != nil {
				return fmt.Errorf("request code: %w", err)
			}
			if issued != "" {
				fmt.Fprintf(out, "Your OTP is: %s\n", issued)
			} else {
				fmt.Fprintf(out, "A code was sent to %s\n", contact)
			}

			if code == "" {
				if code, err = prompt(out, in, "Enter OTP: "); err != nil {
					return err
				}
			}
			if err := c.api.VerifyCode(cmd.Context(), contact, code); err != nil {
				if errors.Is(err, client.ErrCodeRejected) {
					return fmt.Errorf("invalid OTP, request a new code and try again")
				}
				return fmt.Errorf("verify code: %w", err)
			}

			if name == "" {
				if name, err = prompt(out, in, "Your name: "); err != nil {
					return err
				}
			}
			if name == "" {
				return errors.New("name is required")
			}
			if err := c.store.Set(study.DisplayNameKey, name); err != nil {
				return fmt.Errorf("save name: %w", err)
			}

			fmt.Fprintf(out, "Welcome, %s!\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "one-time code (prompted when empty)")
	cmd.Flags().StringVar(&name, "name", "", "display name (prompted when empty)")
	return cmd
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the saved display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok, err := c.store.Get(study.DisplayNameKey)
			if err != nil {
				return err
			}
			if !ok || name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
