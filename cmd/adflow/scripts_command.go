package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adflow/internal/api"
	"adflow/internal/logging"
	"adflow/internal/store"
)

func newScriptsCommand(ctx *commandContext) *cobra.Command {
	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "Inspect and manage scripts",
	}

	scriptsCmd.AddCommand(newScriptsListCommand(ctx))
	scriptsCmd.AddCommand(newScriptsShowCommand(ctx))
	scriptsCmd.AddCommand(newScriptsApproveCommand(ctx))

	return scriptsCmd
}

func newScriptsListCommand(ctx *commandContext) *cobra.Command {
	var conceptID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewScriptService(st, logging.NewNop())
			scripts, err := service.List(cmd.Context(), conceptID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scripts) == 0 {
				fmt.Fprintln(out, "No scripts found")
				return nil
			}

			rows := make([][]string, 0, len(scripts))
			for _, script := range scripts {
				rows = append(rows, []string{
					shortID(script.ID),
					fmt.Sprintf("v%d", script.Version),
					string(script.Status),
					fmt.Sprintf("%ds", script.Duration),
					shortID(script.ConceptID),
					formatDate(&script.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "VER", "STATUS", "DURATION", "CONCEPT", "CREATED"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&conceptID, "concept", "", "Only show scripts for this concept")
	return cmd
}

func newScriptsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <script-id>",
		Short: "Show a script with its tasks and versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewScriptService(st, logging.NewNop())
			detail, err := service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			script := detail.Script
			fmt.Fprintf(out, "Script %s (v%d)\n", script.ID, script.Version)
			fmt.Fprintf(out, "Status:   %s\n", script.Status)
			fmt.Fprintf(out, "Duration: %ds\n", script.Duration)
			if script.ApprovedAt != nil {
				fmt.Fprintf(out, "Approved: %s\n", formatDate(script.ApprovedAt))
			}
			if detail.CurrentStage != "" {
				fmt.Fprintf(out, "Stage:    %s\n", detail.CurrentStage.Label())
			}

			if len(detail.Tasks) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(detail.Tasks))
				for _, view := range detail.Tasks {
					rows = append(rows, []string{
						shortID(view.Task.ID),
						view.Task.Type.Label(),
						string(view.Task.Status),
						stageLabel(view.StageUnblocked),
						formatHours(view.Task.EstimatedTime),
						formatDate(view.Task.DueDate),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"TASK", "TYPE", "STATUS", "STAGE", "EST", "DUE"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
			}

			if len(detail.Versions) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Versions:")
				for _, version := range detail.Versions {
					marker := " "
					if version.ID == script.ID {
						marker = "*"
					}
					fmt.Fprintf(out, "  %s v%d %s %s\n", marker, version.Version, string(version.Status), shortID(version.ID))
				}
			}
			return nil
		},
	}
}

func newScriptsApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <script-id>",
		Short: "Approve a script and queue its production tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewScriptService(st, logging.NewNop())
			status := string(store.ScriptStatusApproved)
			script, err := service.Update(cmd.Context(), args[0], api.UpdateScriptRequest{Status: &status})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Script %s approved (status %s)\n", shortID(script.ID), script.Status)
			return nil
		},
	}
}

func stageLabel(unblocked bool) string {
	if unblocked {
		return "ready"
	}
	return "waiting"
}
