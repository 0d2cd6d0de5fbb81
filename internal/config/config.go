package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/oxhq/covscan/providers/sqlcov"
)

// Config holds one run's settings, resolved from (lowest to highest
// precedence) built-in defaults, covscan.yaml, COVSCAN_* environment
// variables, and command-line flags.
type Config struct {
	// Root is the workspace directory to scan.
	Root string

	// ResultsDir receives per-run artifact directories.
	ResultsDir string

	// DatabaseDSN locates the run-history store: a file path, :memory:,
	// or a libsql/http(s) URL.
	DatabaseDSN string

	// Only restricts the scan to the named technologies; empty scans all.
	Only []string

	// ExcludeDirs extends the default directory skip list.
	ExcludeDirs []string

	// InvocationTimeout bounds each coverage-tool invocation. Zero
	// imposes no budget; the tools run as long as they need.
	InvocationTimeout time.Duration

	// AssertionsPerRoutine is the SQL estimator's assertion-density
	// constant.
	AssertionsPerRoutine int

	// RetentionRuns caps the run-history size; <= 0 disables pruning.
	RetentionRuns int

	// HistoryEnabled toggles run persistence.
	HistoryEnabled bool

	// Debug enables verbose diagnostics, including SQL logging.
	Debug bool
}

// Load resolves configuration. A missing covscan.yaml and a missing .env
// are both fine; only a malformed config file is an error.
func Load() (*Config, error) {
	// .env is a developer convenience, loaded before viper reads the
	// environment so its values are visible as COVSCAN_* overrides.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("covscan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("COVSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("root", ".")
	v.SetDefault("results_dir", filepath.Join(".covscan", "results"))
	v.SetDefault("database_dsn", filepath.Join(".covscan", "covscan.db"))
	v.SetDefault("exclude_dirs", []string{})
	v.SetDefault("only", []string{})
	v.SetDefault("invocation_timeout", time.Duration(0))
	v.SetDefault("sql.assertions_per_routine", sqlcov.DefaultAssertionsPerRoutine)
	v.SetDefault("history.retention_runs", 20)
	v.SetDefault("history.enabled", true)
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	return &Config{
		Root:                 v.GetString("root"),
		ResultsDir:           v.GetString("results_dir"),
		DatabaseDSN:          v.GetString("database_dsn"),
		Only:                 v.GetStringSlice("only"),
		ExcludeDirs:          v.GetStringSlice("exclude_dirs"),
		InvocationTimeout:    v.GetDuration("invocation_timeout"),
		AssertionsPerRoutine: v.GetInt("sql.assertions_per_routine"),
		RetentionRuns:        v.GetInt("history.retention_runs"),
		HistoryEnabled:       v.GetBool("history.enabled"),
		Debug:                v.GetBool("debug"),
	}, nil
}
