package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUICmd(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Read and change the kiosk display settings",
	}

	cmd.AddCommand(
		newUIShowCmd(state),
		newUISetCmd(state),
	)

	return cmd
}

func newUIShowCmd(state *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the display settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app

			device, err := a.deviceID(cmd.Context())
			if err != nil {
				return err
			}

			cfg, _, err := a.repo.Ensure(cmd.Context(), device)
			if err != nil {
				return fmt.Errorf("load device config: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cfg.UI)
			}

			ui := cfg.UI
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cafe_name\t%s\n", ui.CafeName)
			_, _ = fmt.Fprintf(out, "station_id\t%s\n", ui.StationID)
			_, _ = fmt.Fprintf(out, "insert_coin_text\t%s\n", ui.InsertCoinText)
			_, _ = fmt.Fprintf(out, "autoshutdown_text\t%s\n", ui.AutoShutdownText)
			_, _ = fmt.Fprintf(out, "smwindow_position\t%s\n", ui.SmallWindowCorner)
			_, _ = fmt.Fprintf(out, "background_img\t%s\n", ui.BackgroundImage)
			_, err = fmt.Fprintf(out, "countdown_timer\t%d\n", ui.CountdownTimer)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newUISetCmd(state *cli) *cobra.Command {
	var (
		cafeName       string
		stationID      string
		insertCoin     string
		autoShutdown   string
		position       string
		background     string
		countdownTimer uint8
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change display settings; only the given flags are updated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app

			device, err := a.deviceID(cmd.Context())
			if err != nil {
				return err
			}

			cfg, _, err := a.repo.Ensure(cmd.Context(), device)
			if err != nil {
				return fmt.Errorf("load device config: %w", err)
			}

			ui := cfg.UI
			flags := cmd.Flags()
			if flags.Changed("cafe-name") {
				ui.CafeName = cafeName
			}
			if flags.Changed("station-id") {
				ui.StationID = stationID
			}
			if flags.Changed("insert-coin-text") {
				ui.InsertCoinText = insertCoin
			}
			if flags.Changed("autoshutdown-text") {
				ui.AutoShutdownText = autoShutdown
			}
			if flags.Changed("position") {
				switch position {
				case "top-left", "top-right", "bottom-left", "bottom-right":
					ui.SmallWindowCorner = position
				default:
					return fmt.Errorf("unsupported position %q", position)
				}
			}
			if flags.Changed("background") {
				ui.BackgroundImage = background
			}
			if flags.Changed("countdown-timer") {
				ui.CountdownTimer = countdownTimer
			}

			if err := a.repo.SaveUI(cmd.Context(), device, ui); err != nil {
				return fmt.Errorf("save display settings: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "display settings saved")
			return err
		},
	}

	cmd.Flags().StringVar(&cafeName, "cafe-name", "", "Cafe name on the main screen")
	cmd.Flags().StringVar(&stationID, "station-id", "", "Station label")
	cmd.Flags().StringVar(&insertCoin, "insert-coin-text", "", "Prompt shown while idle")
	cmd.Flags().StringVar(&autoShutdown, "autoshutdown-text", "", "Text shown before shutdown")
	cmd.Flags().StringVar(&position, "position", "", "Small window corner: top-left, top-right, bottom-left or bottom-right")
	cmd.Flags().StringVar(&background, "background", "", "Background image path, or none")
	cmd.Flags().Uint8Var(&countdownTimer, "countdown-timer", 0, "Auto shutdown countdown in seconds")

	return cmd
}
