package main

import (
	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
)

func newTeamCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Inspect Linear teams",
	}

	cmd.AddCommand(
		newTeamListCmd(cfg, jsonOutput),
		newTeamStatesCmd(cfg, jsonOutput),
	)
	return cmd
}

func newTeamListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				teams, err := c.Teams.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(teams)
				}
				for _, team := range teams {
					if err := writePlain("%s [%s] %s\n", team.ID, team.Key, team.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newTeamStatesCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "states <team-name>",
		Short: "List a team's workflow states",
		Args:  requireExactlyArgs(1, "team name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				teamID, err := c.Teams.GetIDByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				states, err := c.Teams.GetStates(cmd.Context(), teamID)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(states)
				}
				for _, state := range states {
					if err := writePlain("%s [%s] %s\n", state.ID, state.Type, state.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
