// Package cli wires the sigfox command tree. Commands are thin: they
// translate flags into SDK calls and hand results to the Output renderer.
// All request construction, pagination semantics, and error normalization
// live in pkg/sigfox.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nightswinger/sigfox-cli/internal/config"
	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

// version is overridden at build time via -ldflags "-X ...cli.version=".
var version = "dev"

// env holds everything a command needs after the root PersistentPreRun
// resolved the configuration. Commands receive it through accessor
// closures so resolution happens exactly once per invocation.
type env struct {
	cfg     config.Config
	cfgPath string
	logger  *zap.Logger
}

func (e *env) client() *sigfox.Client {
	return sigfox.New(e.cfg.BaseURL, e.cfg.APILogin, e.cfg.APIPassword,
		sigfox.WithTimeout(e.cfg.Timeout),
		sigfox.WithLogger(e.logger),
	)
}

func (e *env) output(formatOverride string) *Output {
	format := e.cfg.OutputFormat
	if formatOverride != "" {
		format = formatOverride
	}
	return NewOutput(format)
}

// NewRootCmd builds the full sigfox command tree.
func NewRootCmd() *cobra.Command {
	e := &env{logger: zap.NewNop()}

	var (
		cfgFile     string
		apiLogin    string
		apiPassword string
		baseURL     string
		timeout     time.Duration
		verbose     bool
	)

	root := &cobra.Command{
		Use:   "sigfox",
		Short: "Command-line client for the Sigfox v2 API",
		Long: `sigfox manages devices, device types, groups, API users and portal
users on the Sigfox backend.

Credentials and settings are resolved from, in order of precedence:
command-line flags, SIGFOX_* environment variables, the config file
(~/.config/sigfox-cli/config.toml), and built-in defaults. Run
'sigfox config init' to set up credentials interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			e.cfgPath = path

			fileVals, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			cliVals := config.Values{
				APILogin:    apiLogin,
				APIPassword: apiPassword,
				BaseURL:     baseURL,
				Timeout:     timeout,
			}
			e.cfg = config.Resolve(cliVals, config.FromEnv(), fileVals)

			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				e.logger = logger
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/sigfox-cli/config.toml)")
	pf.StringVar(&apiLogin, "api-login", "", "Sigfox API login (ID)")
	pf.StringVar(&apiPassword, "api-password", "", "Sigfox API password (secret)")
	pf.StringVar(&baseURL, "base-url", "", "API base URL (default "+config.DefaultBaseURL+")")
	pf.DurationVar(&timeout, "timeout", 0, "request timeout (default 30s)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every request to stderr")

	root.AddCommand(
		newDevicesCmd(e),
		newDeviceTypesCmd(e),
		newGroupsCmd(e),
		newAPIUsersCmd(e),
		newUsersCmd(e),
		newBaseStationsCmd(e),
		newContractsCmd(e),
		newCoveragesCmd(e),
		newConfigCmd(e),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sigfox CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sigfox %s\n", version)
		},
	}
}

// Execute runs the command tree and renders failures. API errors get a
// kind-specific hint so the user knows whether to fix credentials, check
// connectivity, or correct the request.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		renderError(err)
		return 1
	}
	return 0
}

func renderError(err error) {
	var apiErr *sigfox.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Message)
	switch apiErr.Kind {
	case sigfox.KindAuthentication:
		fmt.Fprintln(os.Stderr, "Check your API credentials ('sigfox config show') or run 'sigfox config init'.")
	case sigfox.KindNetwork, sigfox.KindTimeout:
		fmt.Fprintln(os.Stderr, "Could not reach the Sigfox API. Check your network connection and --base-url.")
	case sigfox.KindRateLimited:
		fmt.Fprintln(os.Stderr, "The service is throttling requests. Wait a moment and retry.")
	}
}

// addListFlags registers the pagination/filter flags shared by every list
// command and returns the bound ListQuery.
func addListFlags(cmd *cobra.Command, q *sigfox.ListQuery) {
	cmd.Flags().IntVar(&q.Limit, "limit", 0, fmt.Sprintf("maximum items to return (service default %d)", sigfox.ServicePageLimit))
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "number of items to skip")
	cmd.Flags().BoolVar(&q.Deep, "deep", false, "search groups and subgroups recursively")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "sort field (e.g. 'name', '-creationTime')")
}

// addOutputFlag registers the per-command output format override.
func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "", "output format: table or json")
}
