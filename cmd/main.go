package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/bankadmin/internal/app"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "bankadmin",
	Short: "Back-office console for the banking API",
	Long: `bankadmin serves the operator console: login, account dashboard,
customer onboarding, account lifecycle actions, credit/debit postings and
interest-rate administration, all backed by the banking REST API.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default $BANKADMIN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "addr", "", "listen address, overrides http.addr and PORT")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func serve(ctx context.Context) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Version = version

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	a.Start()
	return a.Run(ctx, listenAddr)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
