package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <profile-id>",
	Short: "Regenerate the offer analysis for a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		dto, err := env.Offers.GenerateAnalysis(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		zap.L().Info("analysis generated", zap.String("profile_id", args[0]))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto); err != nil {
			return eris.Wrap(err, "encode analysis")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
