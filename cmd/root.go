package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prawira/storefront/internal/config"
	"github.com/prawira/storefront/internal/constants"
	"github.com/prawira/storefront/internal/log"
)

func Start() {
	logger := log.Get("/var/log/storefront.log", config.Application{Env: os.Getenv("STOREFRONT_ENV")}).
		With().
		Str(log.KeyAppName, constants.AppStorefront).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.AppStorefront}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "server",
		Short: "Run the storefront server",
		Run: func(cmd *cobra.Command, args []string) {
			RunServer(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
