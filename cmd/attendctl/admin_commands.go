package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/service"
)

func newAdminCommand(ctx *commandContext) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	adminCmd.AddCommand(newCreateAdminCommand(ctx))
	adminCmd.AddCommand(newResetAdminPasswordCommand(ctx))
	return adminCmd
}

func newCreateAdminCommand(ctx *commandContext) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			pw, err := passwordFlagOrPrompt(password, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			admin, err := svc.auth.CreateAdmin(cmd.Context(), username, pw)
			if err != nil {
				if errors.Is(err, service.ErrDuplicateUsername) {
					return fmt.Errorf("admin %q already exists", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newResetAdminPasswordCommand(ctx *commandContext) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Set a new administrator password and end its session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			pw, err := passwordFlagOrPrompt(password, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.auth.ResetAdminPassword(cmd.Context(), username, pw); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("admin %q not found", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}
