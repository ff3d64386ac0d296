package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

// cli carries the wired application to subcommands. It is populated before any RunE runs.
type cli struct {
	configFile string
	app        *app
}

func newRootCmd() *cobra.Command {
	state := &cli{}

	rootCmd := &cobra.Command{
		Use:           "cps",
		Short:         "CPS kiosk session controller",
		Long:          "cps runs a coin-operated kiosk station: it accepts credits from a paired acceptor, counts down the purchased time, and gates sessions on a remotely authorized license.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(state.configFile)
			if err != nil {
				return err
			}
			state.app, err = wireApp(settings, cmd.ErrOrStderr())
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&state.configFile, "config", "", "settings file (default <config dir>/cps/cps.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(state),
		newLicenseCmd(state),
		newDeviceCmd(state),
		newUICmd(state),
		newAuthorityCmd(state),
	)

	return rootCmd
}
