package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	pkgconfig "github.com/Keenwby/polaris-youth-platform/pkg/config"
	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/Keenwby/polaris-youth-platform/site/internal/config"
)

var (
	envFile string
	token   string
	cfg     *config.Config
	log     *slog.Logger
)

// --- Cobra root and top-level commands ---

var rootCmd = &cobra.Command{
	Use:           "polaris",
	Short:         "Polaris youth platform CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(pkgconfig.WithEnvFile(envFile))
		if err != nil {
			return err
		}
		if token != "" {
			cfg.CMS.Token = token
		}
		// Command output goes to stdout; logs stay on stderr.
		log = logger.New(cfg.Logger(), os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "CMS API token (overrides POLARIS_CMS_TOKEN)")
}

func newCMS() *strapi.Client {
	return strapi.NewClient(cfg.Strapi(), strapi.WithLogger(log))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
