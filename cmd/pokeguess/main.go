// Package main provides the CLI entrypoint for pokeguess.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pokeguess/internal/catalog"
	"github.com/verte-zerg/pokeguess/internal/config"
	"github.com/verte-zerg/pokeguess/internal/game"
	"github.com/verte-zerg/pokeguess/internal/logging"
	"github.com/verte-zerg/pokeguess/internal/match"
	"github.com/verte-zerg/pokeguess/internal/pokeapi"
	"github.com/verte-zerg/pokeguess/internal/settings"
	"github.com/verte-zerg/pokeguess/internal/stats"
	"github.com/verte-zerg/pokeguess/internal/statsui"
	"github.com/verte-zerg/pokeguess/internal/store"
	"github.com/verte-zerg/pokeguess/internal/tui"
)

const (
	defaultCacheTTL  = 24 * time.Hour
	redisPingTimeout = 2 * time.Second
)

// options holds the resolved settings shared by every command.
type options struct {
	apiURL        string
	timeout       time.Duration
	dbPath        string
	logPath       string
	logLevel      string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheTTL      time.Duration
	session       string
}

var (
	opts options

	statsReset bool
	statsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pokeguess",
		Short:         "Guess the Pokémon from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", pokeapi.DefaultBaseURL, "PokeAPI base URL")
	flags.DurationVar(&opts.timeout, "timeout", pokeapi.DefaultTimeout, "timeout for a single API request")
	flags.StringVar(&opts.dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	flags.StringVar(&opts.logPath, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")
	flags.StringVar(&opts.logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared catalog cache")
	flags.StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	flags.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", defaultCacheTTL, "lifetime of the shared catalog cache")
	flags.StringVar(&opts.session, "session", "", "catalog cache session id (default: random)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

// resolveOptions layers defaults, the config file, the environment and flags.
func resolveOptions(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env", config.DefaultEnvPath()); err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&fileCfg, nil); err != nil {
		return err
	}
	applyStringConfig(cmd, "api-url", &opts.apiURL, fileCfg.Game.APIURL)
	applyStringConfig(cmd, "db", &opts.dbPath, fileCfg.Game.DB)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Game.LogLevel)
	applyStringConfig(cmd, "redis-addr", &opts.redisAddr, fileCfg.Cache.RedisAddr)
	applyStringConfig(cmd, "redis-password", &opts.redisPassword, fileCfg.Cache.RedisPassword)
	applyIntConfig(cmd, "redis-db", &opts.redisDB, fileCfg.Cache.RedisDB)
	applyStringConfig(cmd, "session", &opts.session, fileCfg.Cache.Session)
	if err := applyDurationConfig(cmd, "timeout", &opts.timeout, fileCfg.Game.Timeout); err != nil {
		return err
	}
	if err := applyDurationConfig(cmd, "cache-ttl", &opts.cacheTTL, fileCfg.Cache.TTL); err != nil {
		return err
	}
	return validateOptions(opts)
}

func validateOptions(o options) error {
	if strings.TrimSpace(o.apiURL) == "" {
		return fmt.Errorf("--api-url must not be empty")
	}
	if o.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if strings.TrimSpace(o.dbPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	if o.redisDB < 0 {
		return fmt.Errorf("--redis-db must be >= 0")
	}
	if o.cacheTTL < 0 {
		return fmt.Errorf("--cache-ttl must be >= 0")
	}
	return nil
}

// app bundles the long-lived dependencies of a command.
type app struct {
	log      zerolog.Logger
	store    *store.Store
	stats    *stats.Store
	settings *settings.Store
	catalog  *catalog.Catalog
	redis    *redis.Client
	session  string

	logCloser io.Closer
}

func openApp(ctx context.Context, withCatalog bool) (*app, error) {
	log, closer, err := logging.New(opts.logPath, opts.logLevel)
	if err != nil {
		return nil, err
	}
	a := &app{log: log, logCloser: closer}

	st, err := store.Open(opts.dbPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st

	a.stats = stats.NewStore(st, log)
	if _, err := a.stats.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	a.settings = settings.NewStore(st, log)
	if _, err := a.settings.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if withCatalog {
		client := pokeapi.New(opts.apiURL, opts.timeout, log)
		a.catalog = catalog.New(client, log, catalog.WithCache(a.catalogCache(ctx)))
	}
	return a, nil
}

// catalogCache returns the Redis cache when one is reachable and an
// in-process cache otherwise.
func (a *app) catalogCache(ctx context.Context) catalog.Cache {
	if opts.redisAddr == "" {
		return catalog.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.redisAddr,
		Password: opts.redisPassword,
		DB:       opts.redisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		a.log.Warn().Err(err).Str("addr", opts.redisAddr).Msg("redis unavailable, using in-process catalog cache")
		// Best-effort close.
		_ = client.Close()
		return catalog.NewMemoryCache()
	}
	a.redis = client
	a.session = opts.session
	if a.session == "" {
		a.session = uuid.NewString()
	}
	a.log.Info().Str("addr", opts.redisAddr).Str("session", a.session).Msg("using redis catalog cache")
	return catalog.NewRedisCache(client, a.session, opts.cacheTTL)
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logErrf("failed to close redis: %v\n", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logErrf("failed to close db: %v\n", err)
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			logErrf("failed to close log: %v\n", err)
		}
	}
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	if err := resolveOptions(cmd); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	session, err := game.New(ctx, a.catalog, a.stats, a.settings, a.log)
	if err != nil {
		return err
	}
	defer session.Close()

	model := tui.NewModel(ctx, session, a.settings, a.log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsReset, "reset", false, "clear best time and guess counters")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a summary instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if err := resolveOptions(cmd); err != nil {
		return err
	}
	ctx := context.Background()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if statsReset {
		if _, err := a.stats.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset stats: %w", err)
		}
		logErrln("Stats reset.")
	}

	if statsPlain || statsReset || !isTerminal(os.Stdout) {
		return stats.RenderSummary(cmd.OutOrStdout(), a.stats.Current())
	}

	model := statsui.NewModel(ctx, a.stats, a.settings)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Load the catalog and print generation sizes",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	if err := resolveOptions(cmd); err != nil {
		return err
	}
	ctx := context.Background()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	logErrln("Fetching catalog...")
	if err := a.catalog.Load(ctx); err != nil {
		return err
	}
	if a.session != "" {
		logErrf("Cached in redis under session %s\n", a.session)
	}
	selected := a.settings.Snapshot().SelectedGens
	out := cmd.OutOrStdout()
	total := 0
	for i, n := range a.catalog.Sizes() {
		mark := " "
		if i < len(selected) && selected[i] {
			mark = "*"
		}
		first := ""
		if s, ok := a.catalog.Subject(i, 0); ok {
			first = match.DisplayName(s.Name)
		}
		if _, err := fmt.Fprintf(out, "%s Generation %d  %4d  %s\n", mark, i+1, n, first); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		total += n
	}
	if _, err := fmt.Fprintf(out, "  Total         %4d\n", total); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.ParseDuration(name, value)
	if err != nil {
		return err
	}
	*target = *d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pokeguess configuration
# Uncomment a value to enable it. POKEGUESS_* environment variables
# override file values and CLI flags override both.

[game]
# api-url = %q    # PokeAPI base URL
# timeout = %q                          # Timeout for a single API request
# db = %q
# log-level = %q                        # debug, info, warn, error

[cache]
# redis-addr = "localhost:6379"           # Share the catalog through Redis
# redis-password = ""
# redis-db = 0
# ttl = %q                            # Lifetime of the cached catalog
# session = "living-room"                 # Processes with the same session share a catalog
`,
		pokeapi.DefaultBaseURL,
		pokeapi.DefaultTimeout.String(),
		config.DefaultDBPath(),
		logging.DefaultLevel,
		defaultCacheTTL.String(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
