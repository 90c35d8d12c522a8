package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nvandessel/leverage/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage leverage configuration",
		Long: `View and modify leverage configuration settings.

Configuration is stored in ~/.leverage/config.yaml.

Examples:
  leverage config list                               # Show all settings
  leverage config get simulation.stakes.q_k          # Get a specific setting
  leverage config set simulation.max_iterations 50   # Set a setting
  leverage config set metrics.textfile /var/lib/node_exporter/leverage.prom`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

// configKey is one dot-notation setting.
type configKey struct {
	key string
	get func(cfg *config.LeverageConfig) interface{}
	set func(cfg *config.LeverageConfig, value string) error
}

func floatKey(key string, field func(cfg *config.LeverageConfig) *float64) configKey {
	return configKey{
		key: key,
		get: func(cfg *config.LeverageConfig) interface{} { return *field(cfg) },
		set: func(cfg *config.LeverageConfig, value string) error {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid number for %s: %s", key, value)
			}
			*field(cfg) = f
			return nil
		},
	}
}

func stringKey(key string, field func(cfg *config.LeverageConfig) *string) configKey {
	return configKey{
		key: key,
		get: func(cfg *config.LeverageConfig) interface{} { return *field(cfg) },
		set: func(cfg *config.LeverageConfig, value string) error {
			*field(cfg) = value
			return nil
		},
	}
}

var configKeys = []configKey{
	floatKey("simulation.stakes.q_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.QK }),
	floatKey("simulation.stakes.p_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.PK }),
	floatKey("simulation.stakes.x_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.XK }),
	floatKey("simulation.stakes.x_d", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.XD }),
	floatKey("simulation.stakes.z_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.ZK }),
	floatKey("simulation.stakes.z_d", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.ZD }),
	floatKey("simulation.stakes.o_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.OK }),
	floatKey("simulation.stakes.r_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.RK }),
	floatKey("simulation.stakes.y_k", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Stakes.YK }),
	floatKey("simulation.constants.k_const", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Constants.K }),
	floatKey("simulation.constants.d_const", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Constants.D }),
	floatKey("simulation.constants.v_const", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Constants.V }),
	floatKey("simulation.constants.a_const", func(c *config.LeverageConfig) *float64 { return &c.Simulation.Constants.A }),
	{
		key: "simulation.max_iterations",
		get: func(c *config.LeverageConfig) interface{} { return c.Simulation.MaxIterations },
		set: func(c *config.LeverageConfig, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer for simulation.max_iterations: %s", value)
			}
			c.Simulation.MaxIterations = n
			return nil
		},
	},
	floatKey("simulation.convergence_threshold", func(c *config.LeverageConfig) *float64 { return &c.Simulation.ConvergenceThreshold }),
	stringKey("logging.level", func(c *config.LeverageConfig) *string { return &c.Logging.Level }),
	stringKey("logging.trace_dir", func(c *config.LeverageConfig) *string { return &c.Logging.TraceDir }),
	stringKey("metrics.textfile", func(c *config.LeverageConfig) *string { return &c.Metrics.Textfile }),
}

func lookupConfigKey(key string) (configKey, bool) {
	for _, k := range configKeys {
		if k.key == key {
			return k, true
		}
	}
	return configKey{}, false
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration (~/.leverage/config.yaml):")
			fmt.Fprintln(out)
			for _, k := range configKeys {
				v := k.get(cfg)
				if s, ok := v.(string); ok && s == "" {
					v = "(not set)"
				}
				fmt.Fprintf(out, "  %-36s %v\n", k.key+":", v)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			k, found := lookupConfigKey(key)
			if !found {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Unknown configuration key: %s\n", key)
				}
				return nil
			}

			value := k.get(cfg)
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				}
				return fmt.Errorf("config set %s: %w", key, err)
			}

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			}
			return nil
		},
	}
}

// setConfigValue sets key on cfg and rejects values the solver would refuse.
func setConfigValue(cfg *config.LeverageConfig, key, value string) error {
	k, found := lookupConfigKey(key)
	if !found {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	updated := *cfg
	if err := k.set(&updated, value); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*cfg = updated
	return nil
}
