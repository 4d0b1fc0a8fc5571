package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adflow/internal/api"
	"adflow/internal/logging"
)

func newTeamCommand(ctx *commandContext) *cobra.Command {
	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage team members",
	}

	teamCmd.AddCommand(newTeamListCommand(ctx))
	teamCmd.AddCommand(newTeamAddCommand(ctx))

	return teamCmd
}

func newTeamListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List team members with workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewTeamService(st, logging.NewNop())
			members, err := service.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(members) == 0 {
				fmt.Fprintln(out, "No team members found")
				return nil
			}

			rows := make([][]string, 0, len(members))
			for _, member := range members {
				rows = append(rows, []string{
					shortID(member.ID),
					member.Name,
					member.Email,
					orDash(member.Role),
					fmt.Sprintf("%s / %s", formatHours(member.AssignedHours), formatHours(member.CapacityHours)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "NAME", "EMAIL", "ROLE", "LOAD"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newTeamAddCommand(ctx *commandContext) *cobra.Command {
	var email, name, role string
	var capacity float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			service := api.NewTeamService(st, logging.NewNop())
			req := api.TeamMemberRequest{Email: email, Name: name, Role: role}
			if cmd.Flags().Changed("capacity") {
				req.CapacityHours = &capacity
			}
			member, err := service.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s> (%s)\n", member.Name, member.Email, shortID(member.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Member email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Member name (required)")
	cmd.Flags().StringVar(&role, "role", "", "Member role")
	cmd.Flags().Float64Var(&capacity, "capacity", 8, "Daily capacity in hours")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
