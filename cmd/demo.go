package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/cigraph/ingest"
)

func demoCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the built-in demo payload as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := ingest.DemoPayload()
			if output == "" || output == "-" {
				return ingest.WriteJSON(cmd.OutOrStdout(), payload)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := ingest.WriteJSON(f, payload); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s (%d nodes, %d edges)\n",
				good.Sprint("wrote"), output, len(payload.Nodes), len(payload.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default stdout)")
	return cmd
}
