package services

import (
	"context"
	"errors"

	"github.com/fraudlab/txload/internal/table"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type writeCall struct {
	name string
	rows int
	cols []string
}

type mockWriter struct {
	calls  []writeCall
	failOn string
	err    error
}

func (m *mockWriter) Replace(_ context.Context, _ txload.DBConnection, name string, t *table.Table) (int64, error) {
	m.calls = append(m.calls, writeCall{name: name, rows: t.Len(), cols: t.ColumnNames()})
	if name == m.failOn {
		return 0, m.err
	}
	return int64(t.Len()), nil
}

type mockConn struct{}

func (mockConn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (mockConn) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not supported")
}

type mockOpener struct {
	calls   int
	closed  int
	config  *txload.ConnectionConfig
	err     error
}

func (m *mockOpener) open(_ context.Context, cfg *txload.ConnectionConfig) (txload.DBConnection, func(), error) {
	m.calls++
	m.config = cfg
	if m.err != nil {
		return nil, nil, m.err
	}
	return mockConn{}, func() { m.closed++ }, nil
}

type mockConnector struct {
	err error
}

func (m *mockConnector) Connect(context.Context) (*pgx.Conn, error) {
	return nil, m.err
}
