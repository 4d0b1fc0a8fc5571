package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adflow/internal/api"
	"adflow/internal/logging"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and manage production tasks",
	}

	tasksCmd.AddCommand(newTasksListCommand(ctx))
	tasksCmd.AddCommand(newTasksMoveCommand(ctx))

	return tasksCmd
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag, typeFlag, assigneeFlag, scriptFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewTaskService(st, logging.NewNop())
			views, err := service.List(cmd.Context(), api.ListTasksRequest{
				Status:     statusFlag,
				Type:       typeFlag,
				AssigneeID: assigneeFlag,
				ScriptID:   scriptFlag,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No tasks found")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				task := view.Task
				rows = append(rows, []string{
					shortID(task.ID),
					task.Type.Label(),
					string(task.Status),
					stageLabel(view.StageUnblocked),
					formatHours(task.EstimatedTime),
					orDash(shortID(task.AssigneeID)),
					shortID(task.ScriptID),
					formatDate(task.DueDate),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "TYPE", "STATUS", "STAGE", "EST", "ASSIGNEE", "SCRIPT", "DUE"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (QUEUED, IN_PROGRESS, BLOCKED, COMPLETED)")
	cmd.Flags().StringVar(&typeFlag, "type", "", "Filter by type (FILMING, EDITING, REVIEW, REVISION, DELIVERY)")
	cmd.Flags().StringVar(&assigneeFlag, "assignee", "", "Filter by assignee ID")
	cmd.Flags().StringVar(&scriptFlag, "script", "", "Filter by script ID")
	return cmd
}

func newTasksMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewTaskService(st, logging.NewNop())
			status := args[1]
			task, err := service.Update(cmd.Context(), args[0], api.UpdateTaskRequest{Status: &status})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(task.ID), task.Status)
			return nil
		},
	}
}
