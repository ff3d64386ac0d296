package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	licenserender "github.com/bnema/cps-kiosk/internal/adapters/render/license"
	"github.com/bnema/cps-kiosk/internal/application"
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/spf13/cobra"
)

var errLicenseDenied = errors.New("license not authorized")

type activationOutput struct {
	Device       domain.DeviceID      `json:"device_id"`
	Authorized   bool                 `json:"authorized"`
	Claimed      bool                 `json:"claimed"`
	Reason       domain.DenyReason    `json:"reason,omitempty"`
	Message      string               `json:"message"`
	License      domain.LicenseRecord `json:"license"`
	PersistError string               `json:"persist_error,omitempty"`
}

func newLicenseCmd(state *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Activate and inspect the station license",
	}

	cmd.AddCommand(
		newLicenseActivateCmd(state),
		newLicenseStatusCmd(state),
	)

	return cmd
}

func newLicenseActivateCmd(state *cli) *cobra.Command {
	var (
		serial string
		email  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Authorize this device against the license authority",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app
			ctx := cmd.Context()

			device, err := a.deviceID(ctx)
			if err != nil {
				return err
			}

			authority, closeAuthority, err := a.openAuthority(ctx)
			if err != nil {
				return err
			}
			defer closeAuthority()

			svc := application.NewLicenseService(a.authorizationGate(authority), a.repo, a.logNotifier(ctx), device, a.log)

			var result application.ActivationResult
			activate := func(ctx context.Context) error {
				var activateErr error
				result, activateErr = svc.Activate(ctx, serial, email)
				return activateErr
			}

			if asJSON {
				err = activate(ctx)
			} else {
				err = runActivationSpinner(ctx, cmd.ErrOrStderr(), activate)
			}
			if err != nil {
				return fmt.Errorf("activate license: %w", err)
			}

			if err := writeActivationOutput(cmd.OutOrStdout(), a, device, result, asJSON); err != nil {
				return err
			}

			if !result.Decision.Authorized {
				return fmt.Errorf("%w: %s", errLicenseDenied, result.Decision.Reason.Message())
			}
			if result.PersistErr != nil {
				return fmt.Errorf("license authorized but not saved: %w", result.PersistErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "License serial number")
	cmd.Flags().StringVar(&email, "email", "", "Email address of the serial owner")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	_ = cmd.MarkFlagRequired("serial")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLicenseStatusCmd(state *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the local license record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := state.app

			device, err := a.deviceID(cmd.Context())
			if err != nil {
				return err
			}

			var record domain.LicenseRecord
			cfg, err := a.repo.GetByID(cmd.Context(), device)
			switch {
			case errors.Is(err, domain.ErrDeviceNotFound):
			case err != nil:
				return fmt.Errorf("load license record: %w", err)
			default:
				record = cfg.License
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), record)
			}
			return writeLicenseView(cmd.OutOrStdout(), a, licenserender.View{Device: device, Record: record})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func writeActivationOutput(w io.Writer, a *app, device domain.DeviceID, result application.ActivationResult, asJSON bool) error {
	if asJSON {
		out := activationOutput{
			Device:     device,
			Authorized: result.Decision.Authorized,
			Claimed:    result.Decision.Claimed,
			Reason:     result.Decision.Reason,
			Message:    result.Decision.Reason.Message(),
			License:    result.Record,
		}
		if result.PersistErr != nil {
			out.PersistError = result.PersistErr.Error()
		}
		return writeJSON(w, out)
	}

	return writeLicenseView(w, a, licenserender.View{
		Device:  device,
		Record:  result.Record,
		Message: result.Decision.Reason.Message(),
	})
}

func writeLicenseView(w io.Writer, a *app, view licenserender.View) error {
	rendered, err := a.licenseRenderer(view)
	if err != nil {
		return fmt.Errorf("render license: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
