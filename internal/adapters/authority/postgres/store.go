package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const DefaultTable = "serial_numbers"

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store reads and claims serial numbers directly in Postgres, for deployments that host the
// serial table themselves instead of behind the Supabase REST API.
type Store struct {
	pg    querier
	table string
	close func()
}

var _ ports.LicenseAuthority = (*Store)(nil)

func Open(ctx context.Context, dsn string, table string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, domain.ErrMissingCredentials
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open license database: %w", err)
	}

	store := NewStore(pool, table)
	store.close = pool.Close
	return store, nil
}

func NewStore(pg querier, table string) *Store {
	t := strings.TrimSpace(table)
	if t == "" {
		t = DefaultTable
	}
	return &Store{pg: pg, table: pgx.Identifier(strings.Split(t, ".")).Sanitize()}
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

func (s *Store) FetchSerial(ctx context.Context, serial string) (domain.SerialEntry, error) {
	var (
		entry  domain.SerialEntry
		active bool
		bound  string
		owner  string
	)

	err := s.pg.QueryRow(ctx,
		`SELECT serial_number, COALESCE(active, false), COALESCE(bound_device_id, ''), COALESCE(owner_email, '') FROM `+s.table+` WHERE serial_number = $1 LIMIT 1`,
		serial,
	).Scan(&entry.SerialNumber, &active, &bound, &owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SerialEntry{}, domain.ErrSerialNotFound
		}
		return domain.SerialEntry{}, fmt.Errorf("query serial number: %w", err)
	}

	entry.Active = active
	entry.BoundDeviceID = domain.DeviceID(bound)
	entry.OwnerEmail = owner
	return entry, nil
}

func (s *Store) ClaimSerial(ctx context.Context, serial string, device domain.DeviceID) (bool, error) {
	tag, err := s.pg.Exec(ctx,
		`UPDATE `+s.table+` SET active = true, bound_device_id = $2 WHERE serial_number = $1 AND COALESCE(active, false) = false`,
		serial, string(device),
	)
	if err != nil {
		return false, fmt.Errorf("claim serial number: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
