// cmd/tools/catalog-tool/activities.go
package main

import (
	"woundcare-workers/internal/common/config"
	"woundcare-workers/internal/workers/clinical"

	"github.com/spf13/cobra"
)

var configPath string

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Print the service task registry as JSON",
	Long:  "Prints task types, input schemas and BPMN error codes for process modelers.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := &config.Config{}
		if configPath != "" {
			loaded, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		return clinical.Activities(cfg).Write(cmd.OutOrStdout())
	},
}

func init() {
	activitiesCmd.Flags().StringVar(&configPath, "config", "", "Worker config file (default: built-in worker defaults)")
}
