package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/internal/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}
	cmd.AddCommand(
		newConfigInitCmd(e),
		newConfigShowCmd(e),
		newConfigSetCmd(e),
		newConfigPathCmd(e),
	)
	return cmd
}

// prompt reads one line from stdin, returning def when the user just
// presses enter.
func prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(os.Stderr, "%s: ", label)
	}
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func newConfigInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively set up credentials and defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Prompts default to what the file already holds, so accepting
			// them leaves the file's contents unchanged and built-in
			// defaults stay out of it.
			vals, err := config.LoadFile(e.cfgPath)
			if err != nil {
				return err
			}
			vals.APILogin = prompt("API login", vals.APILogin)
			vals.APIPassword = prompt("API password", vals.APIPassword)
			vals.BaseURL = prompt("Base URL", vals.BaseURL)
			vals.OutputFormat = prompt("Default output format (table/json)", vals.OutputFormat)

			if err := config.Persist(e.cfgPath, vals); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Configuration written to %s", e.cfgPath))
			return nil
		},
	}
}

// maskSecret keeps the first four characters visible so the user can
// recognize which credential is stored.
func maskSecret(s string) string {
	if s == "" {
		return "-"
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func newConfigShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration in effect after merging flags, environment
variables, the config file, and built-in defaults. The API password is
masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.output("").Detail([][2]string{
				{"API Login", orDash(e.cfg.APILogin)},
				{"API Password", maskSecret(e.cfg.APIPassword)},
				{"Base URL", e.cfg.BaseURL},
				{"Timeout", e.cfg.Timeout.String()},
				{"Output Format", e.cfg.OutputFormat},
				{"Config File", e.cfgPath},
			}, nil)
			return nil
		},
	}
}

func newConfigSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value in the config file",
		Long: `Set one value in the config file. Keys: api_login, api_password,
base_url, timeout (seconds or a duration like "45s"), default_format.
Flags and environment variables still override the file at runtime.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			// Start from what the file holds, not the merged view: only
			// the given key changes, and neither SIGFOX_* variables nor
			// built-in defaults get written to disk as a side effect.
			vals, err := config.LoadFile(e.cfgPath)
			if err != nil {
				return err
			}

			switch key {
			case "api_login":
				vals.APILogin = value
			case "api_password":
				vals.APIPassword = value
			case "base_url":
				vals.BaseURL = strings.TrimRight(value, "/")
			case "timeout":
				d, err := parseDurationValue(value)
				if err != nil {
					return err
				}
				vals.Timeout = d
			case "default_format":
				if value != "table" && value != "json" {
					return fmt.Errorf("invalid format %q: must be table or json", value)
				}
				vals.OutputFormat = value
			default:
				return fmt.Errorf("unknown config key %q", key)
			}

			if err := config.Persist(e.cfgPath, vals); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("%s updated in %s", key, e.cfgPath))
			return nil
		},
	}
}

func parseDurationValue(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, nil
	}
	var secs int
	if _, err := fmt.Sscanf(raw, "%d", &secs); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid timeout %q: use seconds or a duration like 45s", raw)
}

func newConfigPathCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(e.cfgPath)
		},
	}
}
