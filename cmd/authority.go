package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthorityCmd(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authority",
		Short: "Manage license authority credentials",
	}

	cmd.AddCommand(newAuthoritySetKeyCmd(state))
	cmd.AddCommand(newAuthorityClearKeyCmd(state))

	return cmd
}

func newAuthoritySetKeyCmd(state *cli) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store the authority API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app
			ref := a.settings.GetString(keyAuthorityKeyRef)

			if err := a.secretStore.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store authority key: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "authority key stored at %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "API key value")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newAuthorityClearKeyCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the stored authority API key from every secret backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app
			ref := a.settings.GetString(keyAuthorityKeyRef)

			if err := a.secretStore.Delete(cmd.Context(), ref); err != nil {
				return fmt.Errorf("clear authority key: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "authority key cleared from %s\n", ref)
			return err
		},
	}
}
