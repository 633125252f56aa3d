package main

import (
	"fmt"
	"ticketing-marketplace-backend/config"
	"ticketing-marketplace-backend/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Ticket marketplace ledger",
	Long: `Keeps the authoritative ledger of events, tickets and escrowed sale
proceeds, and serves it over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetConfigFile(cfgPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config %s: %w", cfgPath, err)
		}
		return logger.Configure(viper.GetString(config.LogLevel), viper.GetBool(config.LogJSON))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./config.yaml", "Path to config file")
	rootCmd.AddCommand(serveCmd, stateCmd, tokenCmd)
}
