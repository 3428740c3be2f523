package cmd

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"tinydb/internal/config"
	"tinydb/internal/flatstore"
	"tinydb/internal/logging"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	Dir        string
	Name       string
	LogLevel   string
	JSONOutput bool
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		In:  app.In,
		Out: app.Out,
		Err: app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	paths, cfg, err := config.Resolve(config.Overrides{
		Dir:      p.Dir,
		Name:     p.Name,
		LogLevel: p.LogLevel,
		JSON:     p.JSONOutput,
	})
	if err != nil {
		return nil, err
	}

	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(errOut, level, cfg.Log.Color)
	slog.SetDefault(logger)

	store, err := flatstore.New(paths.StoreFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened store", "path", paths.StoreFile, "entries", store.Len())

	return &App{
		Store:  store,
		Config: cfg,
		Paths:  paths,
		Logger: logger,
		In:     in,
		Out:    out,
		Err:    errOut,
		JSON:   cfg.JSON,
	}, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tinydb",
		Short: "A flat-file key-value store",
		Long: `tinydb keeps string key-value pairs in a single human-readable file,
one key=value entry per line. The file is rewritten as a whole on every change.

Store files are named <name>.tinydb and live in the base directory: the
--dir flag, $TINYDB_DIR, or the directory holding the tinydb executable.
An optional tinydb.yaml in the base directory sets defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().StringVar(&provider.Dir, "dir", "", "Base directory for store files (default: executable directory)")
	rootCmd.PersistentFlags().StringVar(&provider.Name, "name", "", "Store name (default: default)")
	rootCmd.PersistentFlags().StringVar(&provider.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")

	// Register all commands
	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newBatchCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newStatCmd(provider))
	rootCmd.AddCommand(newSnapshotCmd(provider))
	rootCmd.AddCommand(newWatchCmd(provider))

	return rootCmd
}
