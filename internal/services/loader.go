package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fraudlab/txload/internal/db"
	"github.com/fraudlab/txload/internal/table"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/google/uuid"
)

// TableWriter replaces one destination table with the contents of t.
type TableWriter interface {
	Replace(ctx context.Context, conn txload.DBConnection, name string, t *table.Table) (int64, error)
}

// ConnectorFactory builds a Connector for the resolved connection parameters.
type ConnectorFactory func(*txload.ConnectionConfig, txload.Logger) (txload.Connector, error)

type tableReaderFunc func(path string, opts table.ReadOptions) (*table.Table, error)

type targetConnFunc func(ctx context.Context, connConfig *txload.ConnectionConfig) (txload.DBConnection, func(), error)

// LoadService implements the Loader interface.
// Thread-Safety: NOT safe for concurrent Load() calls on the same instance.
type LoadService struct {
	connectorFactory ConnectorFactory
	writer           TableWriter
	logger           txload.Logger
	readTable        tableReaderFunc
	openConn         targetConnFunc
}

// NewLoadService creates a new LoadService with all dependencies injected.
// Panics on nil dependencies: those are wiring mistakes, not runtime conditions.
func NewLoadService(
	connectorFactory ConnectorFactory,
	writer TableWriter,
	logger txload.Logger,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if writer == nil {
		panic("writer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &LoadService{
		connectorFactory: connectorFactory,
		writer:           writer,
		logger:           logger,
		readTable:        table.ReadFile,
	}
	svc.openConn = svc.defaultOpenConn
	return svc
}

func (s *LoadService) defaultOpenConn(ctx context.Context, connConfig *txload.ConnectionConfig) (txload.DBConnection, func(), error) {
	connector, err := s.connectorFactory(connConfig, s.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	conn, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		conn.Close(context.Background())
		if closer, ok := connector.(interface{ Close() error }); ok {
			closer.Close() //nolint:errcheck
		}
	}
	return conn, cleanup, nil
}

// Load reads and converts every dataset, then opens one connection and
// replaces the destination tables in order. Nothing is written unless every
// dataset was read and converted.
func (s *LoadService) Load(ctx context.Context, config txload.LoadConfig) (*txload.Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	connConfig, err := s.validateAndParseConfig(config, runID)
	if err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	tables := make([]*table.Table, len(config.Datasets))
	for i, ds := range config.Datasets {
		t, err := s.prepareDataset(ctx, ds, config.Delimiter)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}

	s.logger.Verbose("Connecting to %s", db.RedactedConnectionString(connConfig))
	conn, cleanup, err := s.openConn(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &txload.Result{RunID: runID}
	for i, ds := range config.Datasets {
		s.logger.Info("Writing %s data to table %s", ds.Name, ds.Table)
		rows, err := s.writer.Replace(ctx, conn, ds.Table, tables[i])
		if err != nil {
			return nil, fmt.Errorf("%s dataset: %w", ds.Name, err)
		}
		result.Tables = append(result.Tables, txload.TableResult{
			Dataset: ds.Name,
			Table:   ds.Table,
			Rows:    rows,
			Columns: len(tables[i].Columns()),
		})
		s.logger.Verbose("Wrote %d rows to %s", rows, ds.Table)
		tables[i] = nil
	}

	result.Duration = time.Since(start)
	s.logger.Verbose("Run %s finished in %v", runID, result.Duration.Round(time.Millisecond))
	return result, nil
}

// prepareDataset reads one source file and coerces its date columns.
func (s *LoadService) prepareDataset(ctx context.Context, ds txload.Dataset, delimiter rune) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("Reading %s data from %s", ds.Name, ds.Path)
	t, err := s.readTable(ds.Path, table.ReadOptions{Delimiter: delimiter})
	if err != nil {
		return nil, fmt.Errorf("%s dataset: %w", ds.Name, err)
	}
	s.logger.Verbose("Read %d rows, %d columns from %s", t.Len(), len(t.Columns()), ds.Path)

	if err := t.ParseTimestamps(ds.DateColumns...); err != nil {
		return nil, fmt.Errorf("%s dataset %s: %w", ds.Name, ds.Path, err)
	}
	return t, nil
}

// validateAndParseConfig validates the configuration and parses the connection string.
func (s *LoadService) validateAndParseConfig(config txload.LoadConfig, runID string) (*txload.ConnectionConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w: %w", err, txload.ErrInvalidConfig)
	}

	// application_name lets a DBA match a session to this run's logs
	if connConfig.AppName == "" {
		connConfig.AppName = txload.DefaultAppName + "-" + runID[:8]
	}

	connConfig.AuthMethod = config.AuthMethod
	connConfig.AWSRegion = config.AWSRegion
	connConfig.GoogleInstance = config.GoogleInstance
	connConfig.AzureTenantID = config.AzureTenantID
	connConfig.AzureClientID = config.AzureClientID
	connConfig.AzureClientSecret = config.AzureClientSecret

	s.logger.Verbose("Run %s: %d dataset(s), auth %s", runID, len(config.Datasets), config.AuthMethod)
	return connConfig, nil
}

// Verify LoadService implements the Loader interface at compile time
var _ txload.Loader = (*LoadService)(nil)
