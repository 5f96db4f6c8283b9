package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/growthlab/internal/catalog"
	"github.com/abhisek/growthlab/internal/config"
	"github.com/abhisek/growthlab/internal/store"
	"github.com/abhisek/growthlab/internal/validation"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "growthlab",
	Short: "Grade answers to growth-analytics challenges",
	Long: `growthlab scores answers to growth-analytics challenges (unit economics,
root-cause analysis, launch plans) in five layers: format, completeness,
calculation, logic and feasibility. Repeated mistakes escalate penalties,
passes unlock follow-up challenges and C grades come back for review.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides GROWTHLAB_DB env var)")
	pf.String("catalog", "", "Directory of challenge YAML files (overrides GROWTHLAB_CATALOG env var)")
	pf.String("config", "", "Path to a YAML file tuning the validator (overrides GROWTHLAB_CONFIG env var)")
	pf.String("user", "", "Learner ID (defaults to GROWTHLAB_USER, then $USER)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GROWTHLAB_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database resolved by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	logger.Debug("opening database", zap.String("path", dbPath))
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadCatalog loads the --catalog directory, then GROWTHLAB_CATALOG, then
// the built-in challenges.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	dir, _ := cmd.Flags().GetString("catalog")
	if dir == "" {
		dir = os.Getenv("GROWTHLAB_CATALOG")
	}
	if dir == "" {
		return catalog.Builtin()
	}
	logger.Debug("loading catalog", zap.String("dir", dir))
	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// loadConfig loads the validator configuration named by --config or
// GROWTHLAB_CONFIG, or the defaults.
func loadConfig(cmd *cobra.Command) (validation.Config, error) {
	flag, _ := cmd.Flags().GetString("config")
	path := config.ResolvePath(flag)
	if path != "" {
		logger.Debug("loading config", zap.String("path", path))
	}
	return config.Load(path)
}

// resolveUser returns the learner ID from --user, GROWTHLAB_USER or $USER,
// falling back to "default".
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	for _, env := range []string{"GROWTHLAB_USER", "USER"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "default"
}
