package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stemsi/facetrack-backend/internal/model"
)

func newStudentsCommand(ctx *commandContext) *cobra.Command {
	var qualificationID, page, perPage int
	var search string
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List enrolled students",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}

			filter := model.StudentFilter{Search: strings.TrimSpace(search)}
			if qualificationID > 0 {
				filter.QualificationID = &qualificationID
			}
			students, pagination, err := svc.students.List(cmd.Context(), filter, page, perPage)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, studentTable(students))
			fmt.Fprintf(out, "Page %d of %d (%d students)\n", pagination.Page, pagination.TotalPages, pagination.TotalItems)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qualificationID, "qualification", "q", 0, "Only students of this qualification ID")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, student ID or username")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "Students per page (max 100)")
	return cmd
}

func studentTable(students []model.Student) string {
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		face := "no"
		if len(st.FaceEncoding) > 0 {
			face = "yes"
		}
		rows = append(rows, []string{st.StudentNumber, st.Name, st.Username, st.QualificationName, face})
	}
	return renderTable([]string{"Student ID", "Name", "Username", "Qualification", "Face"}, rows, nil)
}
