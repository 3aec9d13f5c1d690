package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFleetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Fleet commands",
	}

	cmd.AddCommand(newFleetRandomCmd())

	return cmd
}

func newFleetRandomCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate a randomly placed standard fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			result, err := randomFleet(name)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func randomFleet(name string) (Fleet, error) {
	var result Fleet
	err := client.Post("/api/v1/fleets/random", map[string]string{"name": name}, &result)
	return result, err
}
