package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stemsi/facetrack-backend/internal/model"
)

func newFacesCommand(ctx *commandContext) *cobra.Command {
	facesCmd := &cobra.Command{
		Use:   "faces",
		Short: "Inspect the face index",
	}
	facesCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load every stored encoding and report how many are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := svc.faces.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), statsTable(svc.faces.Stats()))
			return nil
		},
	})
	facesCmd.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Tell every running server to reload its face index",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.faces.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reload published (%d encodings)\n", svc.faces.Stats().Count)
			return nil
		},
	})
	return facesCmd
}

func statsTable(stats model.FaceIndexStats) string {
	rows := [][]string{
		{"Encodings", strconv.Itoa(stats.Count)},
		{"Match tolerance", strconv.FormatFloat(stats.MatchTolerance, 'f', 2, 64)},
		{"Duplicate tolerance", strconv.FormatFloat(stats.DuplicateTolerance, 'f', 2, 64)},
		{"Loaded at", stats.LoadedAt.Local().Format("2006-01-02 15:04:05")},
	}
	return renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
