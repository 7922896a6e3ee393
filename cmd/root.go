package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/vastu/internal/cms"
	"github.com/abhisek/vastu/internal/config"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/store"
)

// v holds configuration for the running command: defaults, then .env and
// environment, then flags bound below.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "vastu",
	Short: "Vastu home self-assessment",
	Long: "Vastu is a terminal self-assessment of how well a home follows Vastu principles, " +
		"with the notification service that emails results and a client for the content API.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		return bindFlags(cmd, v)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("env-file", ".env", "Path to a .env file to load before reading the environment")
	pf.String("db", "", "Path to SQLite database file (overrides VASTU_DB env var)")
	pf.String("questions", "", "Path to a YAML question catalog (default: built-in)")
	pf.String("api-base-url", "", "Content API root, e.g. https://api.example.com/api")

	rootCmd.Flags().String("notify-url", "", "Notification endpoint the wizard posts results to")
	rootCmd.Flags().Duration("notify-timeout", 0, "Give up on sending a result after this long (0 waits indefinitely)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cmsCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags binds every flag the command knows about whose name maps to a
// config key, so a set flag wins over the environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for _, key := range []string{
		config.KeyDB, config.KeyQuestions, config.KeyAPIBaseURL, config.KeyNotifyURL, config.KeyNotifyTimeout,
		config.KeyAddr, config.KeyAdminEmail, config.KeyAllowedOrigins, config.KeyRedisAddr,
	} {
		flag := cmd.Flags().Lookup(flagName(key))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func loadConfig() config.Config {
	return config.From(v)
}

// resolveDBPath returns the database path using --db or VASTU_DB, then the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func loadCatalog(cfg config.Config) (*questionnaire.Catalog, error) {
	if cfg.Questions == "" {
		return questionnaire.DefaultCatalog(), nil
	}
	c, err := questionnaire.LoadCatalog(cfg.Questions)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return c, nil
}

// newCMSClient builds the content API client, sending the admin token when
// one is configured.
func newCMSClient(cfg config.Config) *cms.Client {
	var opts []cms.Option
	if cfg.APIKey != "" {
		opts = append(opts, cms.WithAPIKey(cfg.APIKey))
	}
	return cms.NewClient(cfg.APIBaseURL, opts...)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
