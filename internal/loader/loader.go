// Package loader sends mapped CMDB records to ServiceNow.
//
// Loads are create-only and sequential: every record is validated, stripped
// of its candidate sys_id and inserted once. The instance's response is the
// record of truth; the input record is never modified. When a ledger is
// attached each attempt is recorded under the loader's run ID.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snowloader/internal/domain"
	"snowloader/internal/logger"
	"snowloader/internal/repository"
	"snowloader/internal/transform"
)

// ErrNilRecord is returned when Load is given no record
var ErrNilRecord = errors.New("loader: nil record")

// Loader creates CMDB records through a TableClient
type Loader struct {
	client TableClient
	ledger repository.Ledger
	runID  string
	log    zerolog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithLedger records every attempt in ledger
func WithLedger(ledger repository.Ledger) Option {
	return func(l *Loader) {
		l.ledger = ledger
	}
}

// WithRunID overrides the generated run ID
func WithRunID(id string) Option {
	return func(l *Loader) {
		if id != "" {
			l.runID = id
		}
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// New creates a loader with a fresh run ID
func New(client TableClient, opts ...Option) *Loader {
	l := &Loader{
		client: client,
		runID:  uuid.NewString(),
		log:    logger.WithComponent("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunID identifies this loader's ledger entries
func (l *Loader) RunID() string {
	return l.runID
}

// Load validates rec and creates it in its table. The returned map is the
// stored record as reported by the instance.
func (l *Loader) Load(ctx context.Context, rec domain.Record) (map[string]any, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	return l.load(ctx, sourceID(rec), rec)
}

// LoadGateway creates a cmdb_ci_network_gateway record
func (l *Loader) LoadGateway(ctx context.Context, g domain.GatewayCI) (map[string]any, error) {
	return l.Load(ctx, g)
}

// LoadLocation creates a cmdb_location record
func (l *Loader) LoadLocation(ctx context.Context, loc domain.Location) (map[string]any, error) {
	return l.Load(ctx, loc)
}

// LoadNetworkDevice creates a cmdb_ci_network_gear record
func (l *Loader) LoadNetworkDevice(ctx context.Context, d domain.NetworkDeviceCI) (map[string]any, error) {
	return l.Load(ctx, d)
}

// LoadEndpoint creates a cmdb_endpoint record
func (l *Loader) LoadEndpoint(ctx context.Context, e domain.Endpoint) (map[string]any, error) {
	return l.Load(ctx, e)
}

func (l *Loader) load(ctx context.Context, source string, rec domain.Record) (map[string]any, error) {
	table := rec.Table()

	if err := rec.Validate(); err != nil {
		l.record(ctx, repository.Entry{Table: table, SourceID: source, Status: repository.StatusInvalid, Error: err.Error()})
		return nil, err
	}

	created, err := l.client.CreateRecord(ctx, table, domain.CreatePayload(rec))
	if err != nil {
		l.record(ctx, repository.Entry{Table: table, SourceID: source, Status: repository.StatusFailed, Error: err.Error()})
		return nil, fmt.Errorf("create %s record %s: %w", table, source, err)
	}

	sysID, _ := created[domain.SysIDField].(string)
	l.record(ctx, repository.Entry{Table: table, SourceID: source, SysID: sysID, Status: repository.StatusCreated})

	l.log.Info().
		Str("table", table).
		Str("source_id", source).
		Str("sys_id", sysID).
		Msg("record created")

	return created, nil
}

func (l *Loader) record(ctx context.Context, entry repository.Entry) {
	if l.ledger == nil {
		return
	}
	entry.RunID = l.runID
	if err := l.ledger.RecordLoad(ctx, entry); err != nil {
		l.log.Warn().Err(err).Str("table", entry.Table).Str("source_id", entry.SourceID).Msg("failed to record load")
	}
}

// sourceID is the candidate sys_id the mapper derived from the source record
func sourceID(rec domain.Record) string {
	id, _ := rec.Fields()[domain.SysIDField].(string)
	return id
}

// Failure is one record that could not be loaded
type Failure struct {
	Table    string
	SourceID string
	Err      error
}

// Summary reports the outcome of LoadInventory
type Summary struct {
	RunID    string
	Created  int
	Invalid  int
	Failed   int
	Failures []Failure
}

// Err joins every failure, or returns nil when all records loaded
func (s *Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Failures))
	for _, f := range s.Failures {
		errs = append(errs, fmt.Errorf("%s %s: %w", f.Table, f.SourceID, f.Err))
	}
	return errors.Join(errs...)
}

// LoadInventory maps and loads every record of inv, one at a time.
// Per-record failures are collected in the summary; only cancellation
// stops the pass early.
func (l *Loader) LoadInventory(ctx context.Context, inv *domain.Inventory) (*Summary, error) {
	summary := &Summary{RunID: l.runID}

	for _, res := range transform.Inventory(inv) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if res.Err != nil {
			summary.Invalid++
			summary.Failures = append(summary.Failures, Failure{Table: res.Table, SourceID: res.SourceID, Err: res.Err})
			l.record(ctx, repository.Entry{Table: res.Table, SourceID: res.SourceID, Status: repository.StatusInvalid, Error: res.Err.Error()})
			l.log.Warn().Err(res.Err).Str("table", res.Table).Str("source_id", res.SourceID).Msg("skipping unmappable record")
			continue
		}

		if _, err := l.load(ctx, res.SourceID, res.Record); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Table: res.Table, SourceID: res.SourceID, Err: err})
			continue
		}
		summary.Created++
	}

	l.log.Info().
		Str("run_id", l.runID).
		Int("created", summary.Created).
		Int("invalid", summary.Invalid).
		Int("failed", summary.Failed).
		Msg("inventory load finished")

	return summary, nil
}
