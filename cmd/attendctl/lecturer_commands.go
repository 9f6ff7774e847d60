package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/service"
)

func newLecturerCommand(ctx *commandContext) *cobra.Command {
	lecturerCmd := &cobra.Command{
		Use:   "lecturer",
		Short: "Manage lecturer accounts",
	}
	lecturerCmd.AddCommand(newCreateLecturerCommand(ctx))
	lecturerCmd.AddCommand(newListLecturersCommand(ctx))
	return lecturerCmd
}

func newCreateLecturerCommand(ctx *commandContext) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a lecturer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlagOrPrompt(password, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			lecturer, err := svc.lecturers.Create(cmd.Context(), model.CreateLecturerRequest{
				Name:     name,
				Username: args[0],
				Password: pw,
			})
			if err != nil {
				if errors.Is(err, service.ErrDuplicateUsername) {
					return fmt.Errorf("lecturer %q already exists", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created lecturer %s (id %d)\n", lecturer.Name, lecturer.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the username)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newListLecturersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lecturers",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			lecturers, err := svc.lecturers.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), lecturerTable(lecturers))
			return nil
		},
	}
}

func lecturerTable(lecturers []model.Lecturer) string {
	rows := make([][]string, 0, len(lecturers))
	for _, l := range lecturers {
		rows = append(rows, []string{strconv.Itoa(l.ID), l.Username, l.Name, l.CreatedAt.Local().Format("2006-01-02")})
	}
	return renderTable([]string{"ID", "Username", "Name", "Created"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}
