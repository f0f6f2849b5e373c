package main

import (
	"errors"

	"github.com/spf13/cobra"

	"linctl/internal/client"
	"linctl/internal/config"
)

func newMetaCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Read and write issue metadata",
	}

	cmd.AddCommand(
		newMetaGetCmd(cfg, jsonOutput),
		newMetaSetCmd(cfg),
		newMetaClearCmd(cfg),
	)
	return cmd
}

func newMetaGetCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "get <issue-id>",
		Short: "Show an issue's metadata",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				meta, err := c.Metadata.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(meta)
				}
				for _, line := range formatMetadataLines(meta, "") {
					if err := writePlain("%s\n", line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newMetaSetCmd(cfg *config.Config) *cobra.Command {
	var metaJSON string

	cmd := &cobra.Command{
		Use:   "set <issue-id> [key=value...]",
		Short: "Replace an issue's metadata",
		Long: `Replace an issue's stored metadata wholesale with the given
key=value pairs and/or --data object. Keys absent from the new mapping
are dropped.`,
		Args: requireAtLeastArgs(1, "issue id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := metaSetMapping(args[1:], metaJSON)
			if err != nil {
				return err
			}
			return withClient(cfg, func(c *client.Client) error {
				return c.Metadata.Save(cmd.Context(), args[0], meta)
			})
		},
	}

	cmd.Flags().StringVar(&metaJSON, "data", "", "metadata as JSON object")
	return cmd
}

// metaSetMapping builds the replacement mapping for meta set. Set
// replaces wholesale, so calling it with nothing to store would wipe
// the mapping by accident; that spelling is rejected in favor of the
// explicit meta clear.
func metaSetMapping(kvPairs []string, rawJSON string) (map[string]any, error) {
	if len(kvPairs) == 0 && rawJSON == "" {
		return nil, errors.New("nothing to set: pass key=value pairs or --data (use \"meta clear\" to remove metadata)")
	}
	return parseMetaFlags(kvPairs, rawJSON)
}

func newMetaClearCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <issue-id>",
		Short: "Remove an issue's stored metadata",
		Args:  requireIssueID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(c *client.Client) error {
				return c.Metadata.Clear(cmd.Context(), args[0])
			})
		},
	}
}
