package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/network"
	"github.com/nvandessel/leverage/internal/scenario"
)

// validationReport is the outcome of validating one scenario file.
type validationReport struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Mode  string `json:"mode,omitempty"`
	Valid bool   `json:"valid"`
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml...]",
		Short: "Check the config and scenario files without running them",
		Long: `Check the active configuration and each named scenario file against
the solver's input rules. Nothing is run.

Examples:
  leverage validate                       # Config only
  leverage validate runs/*.yaml           # Config and scenario files
  leverage validate heavy.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			reports := make([]validationReport, 0, len(args))
			invalid := 0
			for _, path := range args {
				r := validateScenarioFile(path, cfg.Simulation)
				if !r.Valid {
					invalid++
				}
				reports = append(reports, r)
			}

			if jsonOut {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"config":    "valid",
					"scenarios": reports,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Config: valid")
				for _, r := range reports {
					if r.Valid {
						fmt.Fprintf(out, "  ok    %s (%s, %s)\n", r.File, r.Name, r.Mode)
					} else {
						fmt.Fprintf(out, "  FAIL  %s: %s\n", r.File, r.Error)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d scenario files invalid", invalid, len(reports))
			}
			return nil
		},
	}
}

func validateScenarioFile(path string, defaults config.SimulationConfig) validationReport {
	r := validationReport{File: path}

	sc, err := scenario.Load(path, defaults)
	if err == nil {
		r.Name, r.Mode = sc.Name, sc.Mode.String()
		err = sc.Validate()
	}
	if err != nil {
		r.Error = err.Error()
		var ce *network.ConfigurationError
		if errors.As(err, &ce) {
			r.Field = ce.Field
		}
		return r
	}

	r.Valid = true
	return r
}
