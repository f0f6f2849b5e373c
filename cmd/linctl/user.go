package main

import (
	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
)

func newUserCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect Linear users",
	}

	cmd.AddCommand(
		newUserListCmd(cfg, jsonOutput),
		newUserMeCmd(cfg, jsonOutput),
	)
	return cmd
}

func newUserMeCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the user who owns the API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				user, err := c.Users.GetMe(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(user)
				}
				return writePlain("%s %s <%s>\n", user.ID, user.DisplayName, user.Email)
			})
		},
	}
}

func newUserListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				users, err := c.Users.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(users)
				}
				for _, user := range users {
					if activeOnly && !user.Active {
						continue
					}
					if err := writePlain("%s %s <%s>\n", user.ID, user.DisplayName, user.Email); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active users")
	return cmd
}
