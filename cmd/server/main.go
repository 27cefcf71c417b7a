package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ota-reconciliation-backend/internal/config"
)

type app struct {
	cfg     *config.Config
	envFile string
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and sets up logging before any command.
func preRun(a *app) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var files []string
		if a.envFile != "" {
			files = append(files, a.envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		config.InitLogger(cfg)
		a.cfg = cfg
		return nil
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "otarecon",
		Short:         "Reconcile OTA orders against hotel PMS exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to load (defaults to ./.env)")
	rootCmd.PersistentPreRunE = preRun(a)

	rootCmd.AddCommand(serveCommand(a))
	rootCmd.AddCommand(auditCommand())
	rootCmd.AddCommand(compareDatesCommand())
	rootCmd.AddCommand(meituanCommand())
	return rootCmd
}

func main() {
	defer recoverPanic()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
