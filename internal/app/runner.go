package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ggonzalez94/superfluid-cli/internal/cache"
	"github.com/ggonzalez94/superfluid-cli/internal/config"
	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/fetch"
	"github.com/ggonzalez94/superfluid-cli/internal/format"
	"github.com/ggonzalez94/superfluid-cli/internal/httpx"
	"github.com/ggonzalez94/superfluid-cli/internal/jsmodule"
	"github.com/ggonzalez94/superfluid-cli/internal/logging"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
	"github.com/ggonzalez94/superfluid-cli/internal/out"
	"github.com/ggonzalez94/superfluid-cli/internal/policy"
	"github.com/ggonzalez94/superfluid-cli/internal/schema"
	"github.com/ggonzalez94/superfluid-cli/internal/superapi"
	"github.com/ggonzalez94/superfluid-cli/internal/version"
)

const groupAnnotation = "group"

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	settings    config.Settings
	root        *cobra.Command
	logger      *zap.Logger
	store       *cache.Store
	resolver    *fetch.Resolver
	balances    *superapi.Client
	formatter   format.Formatter
	lastCommand string
	showUsage   bool
	sources     []model.SourceStatus
	data        datasets
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r, logger: logging.NewNop()}
	root := state.newRootCommand()
	state.root = root
	root.SetArgs(args)
	// Help and usage are diagnostics; only results go to stdout.
	root.SetOut(r.stderr)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	failed, err := root.ExecuteContextC(context.Background())
	err = state.normalizeRunError(err)
	defer func() { _ = state.logger.Sync() }()
	if err == nil {
		return 0
	}
	if state.showUsage && failed != nil {
		_, _ = fmt.Fprint(r.stderr, failed.UsageString())
		_, _ = fmt.Fprintln(r.stderr)
	}
	state.renderError(err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Superfluid protocol metadata resolvers",
		Long: "Resolve Superfluid contract ABIs, network metadata, token lists and live\n" +
			"super token balances. Remote datasets are cached locally and served from\n" +
			"the cache when the network is unavailable.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings

			logger, err := logging.New(s.runner.stderr, settings.LogLevel)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "configure logging", err)
			}
			s.logger = logger

			path := trimRootPath(cmd.CommandPath())
			s.lastCommand = path
			if cmd.Annotations[groupAnnotation] == "" {
				if err := policy.CheckCommandAllowed(settings.EnableCommands, path); err != nil {
					return err
				}
			}

			httpClient := httpx.New(httpx.DefaultTimeout)
			s.store = cache.Open(settings.CacheDir, settings.CacheLockPath)
			s.resolver = fetch.New(httpClient, s.store, jsmodule.New(),
				fetch.WithOffline(settings.Offline),
				fetch.WithLogger(logger),
			)
			s.balances = superapi.New(httpClient, settings.BalanceAPIURL)
			s.formatter = format.New(settings.DisplayPrecision, settings.DefaultDecimals)
			logger.Debug("configured",
				zap.String("command", path),
				zap.String("cache_dir", settings.CacheDir),
				zap.Bool("offline", settings.Offline),
			)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		s.showUsage = true
		return clierr.Wrap(clierr.CodeUsage, "parse flags", err)
	})

	cmd.PersistentFlags().BoolVar(&s.flags.JSON, "json", false, "Output JSON (default)")
	cmd.PersistentFlags().BoolVar(&s.flags.Plain, "plain", false, "Output plain text")
	cmd.PersistentFlags().BoolVar(&s.flags.Envelope, "envelope", false, "Wrap output in a success/error envelope with source metadata")
	cmd.PersistentFlags().StringVar(&s.flags.Select, "select", "", "Select fields from data (comma-separated)")
	cmd.PersistentFlags().StringVar(&s.flags.EnableCommands, "enable-commands", "", "Allowlist command paths (comma-separated)")
	cmd.PersistentFlags().BoolVarP(&s.flags.Verbose, "verbose", "v", false, "Log fetch and cache activity to stderr")
	cmd.PersistentFlags().BoolVar(&s.flags.Offline, "offline", false, "Serve datasets from the local cache only")
	cmd.PersistentFlags().StringVar(&s.flags.CacheDir, "cache-dir", "", "Cache directory")
	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")

	cmd.AddCommand(s.newABICommand())
	cmd.AddCommand(s.newMetadataCommand())
	cmd.AddCommand(s.newTokenListCommand())
	cmd.AddCommand(s.newBalanceCommand())
	cmd.AddCommand(s.newCacheCommand())
	cmd.AddCommand(s.newSchemaCommand())
	cmd.AddCommand(s.newVersionCommand())

	return cmd
}

// newGroupCommand returns a command that only hosts subcommands. Without
// arguments it prints help; an unknown subcommand is a usage error.
func newGroupCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.ArbitraryArgs,
		Annotations: map[string]string{groupAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
		},
	}
}

func (s *runtimeState) newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if long {
				_, _ = fmt.Fprintln(s.runner.stdout, version.Long())
				return
			}
			_, _ = fmt.Fprintln(s.runner.stdout, version.CLIVersion)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

func (s *runtimeState) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [command path]",
		Short: "Print machine-readable command schema",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.Build(s.root, strings.Join(args, " "))
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "build schema", err)
			}
			return s.emitSuccess(cmd, data)
		},
	}
}

func (s *runtimeState) emitSuccess(cmd *cobra.Command, data any) error {
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: true,
		Data:    data,
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   trimRootPath(cmd.CommandPath()),
			Sources:   s.sources,
		},
	}
	if err := out.Render(s.runner.stdout, env, s.settings); err != nil {
		return clierr.Wrap(clierr.CodeInternal, "render output", err)
	}
	return nil
}

func (s *runtimeState) renderError(err error) {
	commandPath := s.lastCommand
	if commandPath == "" {
		commandPath = version.CLIName
	}
	code := clierr.CodeInternal
	message := err.Error()
	var hints []string
	if cErr, ok := clierr.As(err); ok {
		code = cErr.Code
		hints = cErr.Hints
		if len(hints) > 0 {
			message = cErr.Message
		}
	}

	if !s.settings.Envelope {
		w := s.runner.stderr
		prefix := color.New(color.FgRed, color.Bold)
		if isTerminal(w) {
			prefix.EnableColor()
		} else {
			prefix.DisableColor()
		}
		_, _ = prefix.Fprint(w, "Error:")
		_, _ = fmt.Fprintf(w, " %s\n", message)
		for _, hint := range hints {
			_, _ = fmt.Fprintln(w, hint)
		}
		return
	}

	settings := s.settings
	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	settings.SelectFields = nil
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: false,
		Error: &model.ErrorBody{
			Code:    int(code),
			Type:    clierr.TypeName(code),
			Message: message,
			Hints:   hints,
		},
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
			Sources:   s.sources,
		},
	}
	_ = out.Render(s.runner.stderr, env, settings)
}

func (s *runtimeState) normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clierr.As(err); ok {
		return err
	}
	if isLikelyUsageError(err) {
		s.showUsage = true
		return clierr.Wrap(clierr.CodeUsage, "invalid command input", err)
	}
	return clierr.Wrap(clierr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"required flag(s)",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"invalid args",
		"if any flags in the group",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseChainID accepts a base-10 chain id.
func parseChainID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, clierr.Wrap(clierr.CodeMalformedInput, fmt.Sprintf("chain-id must be a number, got %q", raw), err)
	}
	return id, nil
}

func newRequestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func trimRootPath(path string) string {
	parts := strings.Fields(path)
	if len(parts) <= 1 {
		return path
	}
	return strings.Join(parts[1:], " ")
}
