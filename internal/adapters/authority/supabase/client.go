package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
)

const (
	DefaultTable          = "serial_numbers"
	restPath              = "/rest/v1/"
	selectColumns         = "serial_number,active,bound_device_id,owner_email"
	inactiveFilter        = "(active.eq.false,active.is.null)"
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 10 * time.Second
)

// Client talks to the serial-number table through the PostgREST API exposed by Supabase.
type Client struct {
	BaseURL        string
	APIKey         string
	Table          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.LicenseAuthority = Client{}

type serialRow struct {
	SerialNumber  string       `json:"serial_number"`
	Active        flexibleBool `json:"active"`
	BoundDeviceID *string      `json:"bound_device_id"`
	OwnerEmail    *string      `json:"owner_email"`
}

type claimBody struct {
	Active        bool   `json:"active"`
	BoundDeviceID string `json:"bound_device_id"`
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

func (c Client) FetchSerial(ctx context.Context, serial string) (domain.SerialEntry, error) {
	query := url.Values{}
	query.Set("select", selectColumns)
	query.Set("serial_number", "eq."+serial)

	endpoint, err := c.endpoint(query)
	if err != nil {
		return domain.SerialEntry{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.SerialEntry{}, fmt.Errorf("create fetch serial request: %w", err)
	}
	c.setHeaders(req)

	rows, err := c.do(req, "fetch serial")
	if err != nil {
		return domain.SerialEntry{}, err
	}

	switch len(rows) {
	case 0:
		return domain.SerialEntry{}, domain.ErrSerialNotFound
	case 1:
		return rows[0].toEntry(), nil
	default:
		return domain.SerialEntry{}, fmt.Errorf("fetch serial: %d rows for serial number %q", len(rows), serial)
	}
}

// ClaimSerial patches the row only while it is still inactive, so two devices racing for the
// same serial cannot both win. A NULL active column counts as inactive, as it does on fetch.
func (c Client) ClaimSerial(ctx context.Context, serial string, device domain.DeviceID) (bool, error) {
	query := url.Values{}
	query.Set("serial_number", "eq."+serial)
	query.Set("or", inactiveFilter)
	query.Set("select", selectColumns)

	endpoint, err := c.endpoint(query)
	if err != nil {
		return false, err
	}

	body, err := json.Marshal(claimBody{Active: true, BoundDeviceID: string(device)})
	if err != nil {
		return false, fmt.Errorf("encode claim body: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create claim serial request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	rows, err := c.do(req, "claim serial")
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if row.SerialNumber == serial && row.toEntry().BoundTo(device) {
			return true, nil
		}
	}
	return false, nil
}

func (c Client) do(req *http.Request, op string) ([]serialRow, error) {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: %s", op, decodeRestError(resp))
	}

	var rows []serialRow
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return rows, nil
}

func (c Client) endpoint(query url.Values) (string, error) {
	if strings.TrimSpace(c.BaseURL) == "" || strings.TrimSpace(c.APIKey) == "" {
		return "", domain.ErrMissingCredentials
	}

	table := c.Table
	if table == "" {
		table = DefaultTable
	}

	endpoint, err := buildAPIURL(c.BaseURL, restPath+url.PathEscape(table))
	if err != nil {
		return "", err
	}
	return endpoint + "?" + query.Encode(), nil
}

func (c Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (r serialRow) toEntry() domain.SerialEntry {
	entry := domain.SerialEntry{
		SerialNumber: r.SerialNumber,
		Active:       bool(r.Active),
	}
	if r.BoundDeviceID != nil {
		entry.BoundDeviceID = domain.DeviceID(*r.BoundDeviceID)
	}
	if r.OwnerEmail != nil {
		entry.OwnerEmail = *r.OwnerEmail
	}
	return entry
}

func decodeRestError(resp *http.Response) string {
	var restErr restError
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&restErr); err != nil || restErr.Message == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	if restErr.Code != "" {
		return fmt.Sprintf("status %d: %s: %s", resp.StatusCode, restErr.Code, restErr.Message)
	}

	return fmt.Sprintf("status %d: %s", resp.StatusCode, restErr.Message)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse authority url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("authority url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("authority url host is required")
	}

	endpoint, err := parsed.Parse(strings.TrimRight(parsed.Path, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse authority path: %w", err)
	}

	return endpoint.String(), nil
}

// flexibleBool accepts JSON booleans as well as the strings "true" and "false"; rows written by
// older tooling store the flag as text.
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch strings.ToLower(strings.Trim(raw, `"`)) {
	case "true":
		*b = true
	case "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", raw)
	}
	return nil
}
