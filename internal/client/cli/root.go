package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/mazadlive/internal/client/iocli"
	"github.com/iudanet/mazadlive/internal/config"
)

// BuildInfo - информация о версии, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// options - глобальные флаги
type options struct {
	configPath string
	envFile    string
	backendURL string
	apiKey     string
	dbPath     string
	storage    string
	debug      bool
}

// app создает Cli для каждой команды
type app struct {
	stdio iocli.IO
	opts  options
}

// NewRootCmd создает корневую команду mazadlive
func NewRootCmd(stdio iocli.IO, info BuildInfo) *cobra.Command {
	a := &app{stdio: stdio}

	rootCmd := &cobra.Command{
		Use:           "mazadlive",
		Short:         "MazadClick live client: session, notifications and bid tracking",
		Long:          "mazadlive keeps a MazadClick buyer session, streams realtime notifications, polls bid status and announces won auctions in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdio)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Path to YAML config file")
	flags.StringVar(&a.opts.envFile, "env-file", ".env", "Path to .env file")
	flags.StringVar(&a.opts.backendURL, "backend", "", "Backend URL")
	flags.StringVar(&a.opts.apiKey, "api-key", "", "Backend API key")
	flags.StringVar(&a.opts.dbPath, "db", "", "Path to local database")
	flags.StringVar(&a.opts.storage, "storage", "", "Storage backend (bolt, sqlite)")
	flags.BoolVar(&a.opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(info),
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newBidsCmd(a),
		newNotificationsCmd(a),
		newWatchCmd(a),
	)

	return rootCmd
}

// run создает Cli, выполняет fn и закрывает хранилище на любом пути выхода
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, c *Cli) error) (err error) {
	c, err := a.wire(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close storage: %w", closeErr)
		}
	}()

	return fn(cmd.Context(), c)
}

// wire загружает конфигурацию (флаги сильнее MAZAD_* и файлов) и создает Cli
func (a *app) wire(cmd *cobra.Command) (*Cli, error) {
	cfg, err := config.Load(a.opts.configPath, a.opts.envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.BackendURL = a.opts.backendURL
	}
	if flags.Changed("api-key") {
		cfg.APIKey = a.opts.apiKey
	}
	if flags.Changed("db") {
		cfg.DBPath = a.opts.dbPath
	}
	if flags.Changed("storage") {
		cfg.Storage = a.opts.storage
	}
	if flags.Changed("debug") {
		cfg.Debug = a.opts.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return New(cmd.Context(), cfg, a.stdio, logger)
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"mazadlive\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
				info.Version, info.BuildDate, info.GitCommit)
			return err
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	var phone, otp string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with phone number and OTP code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runLogin(ctx, phone, otp)
			})
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (prompted if empty)")
	cmd.Flags().StringVar(&otp, "otp", "", "OTP code (prompted if empty)")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runLogout(ctx)
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runStatus(ctx)
			})
		},
	}
}

func newBidsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bids",
		Short: "Check bid status once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runBids(ctx)
			})
		},
	}
}

func newNotificationsCmd(a *app) *cobra.Command {
	var opts NotificationOptions

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List chat and backend notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runNotifications(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.MarkRead, "read", "", "Mark notification with this id as read")
	cmd.Flags().BoolVar(&opts.MarkAll, "read-all", false, "Mark all notifications as read")

	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream notifications, poll bids and announce won auctions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, c *Cli) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				return c.runWatch(ctx)
			})
		},
	}
}

// Execute запускает корневую команду с контекстом
func Execute(ctx context.Context, stdio iocli.IO, info BuildInfo) error {
	return NewRootCmd(stdio, info).ExecuteContext(ctx)
}
