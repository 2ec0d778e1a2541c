// Package commands команды CLI сервиса бронирования туров
package commands

import "github.com/spf13/cobra"

const defaultConfigPath = "config.toml"

// Root возвращает корневую команду
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tour-booking",
		Short:         "SMC tour booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Migrate())
	cmd.AddCommand(Version())

	return cmd
}
