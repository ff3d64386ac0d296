package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newDeviceCmd(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect this station's identity and paired acceptors",
	}

	cmd.AddCommand(
		newDeviceIDCmd(state),
		newDeviceClientsCmd(state),
	)

	return cmd
}

func newDeviceIDCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print the device identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			device, err := state.app.deviceID(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), device)
			return err
		},
	}
}

func newDeviceClientsCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List acceptors that completed registration",
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

			hwids := make([]string, 0, len(cfg.Clients))
			for hwid := range cfg.Clients {
				hwids = append(hwids, hwid)
			}
			sort.Strings(hwids)

			for _, hwid := range hwids {
				client := cfg.Clients[hwid]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", client.HWID, client.Address, client.PairedAt.Format(time.RFC3339))
			}

			return nil
		},
	}
}
