package services

import (
	"context"
	"errors"

	"github.com/vvka-141/pgcsv/internal/store/postgres"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

type mockConnector struct {
	store *mockStore
	err   error
	calls int
}

func (m *mockConnector) Connect(_ context.Context) (pgcsv.Store, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.store, nil
}

func (m *mockConnector) Dialect() pgcsv.Dialect {
	return postgres.Dialect{}
}

type mockStore struct {
	existing   []pgcsv.ExistingColumn
	beginErr   error
	tableErr   error
	execErr    error
	insertErr  error
	commitErr  error
	failOnUnit int // 1-based unit whose insert fails with insertErr; 0 means every unit

	txs        []*mockTx
	tableReads int
	closed     int
}

func (m *mockStore) Dialect() pgcsv.Dialect { return postgres.Dialect{} }

func (m *mockStore) Begin(_ context.Context) (pgcsv.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	tx := &mockTx{store: m, unit: len(m.txs) + 1}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *mockStore) TableColumns(_ context.Context, _ pgcsv.TableName) ([]pgcsv.ExistingColumn, error) {
	m.tableReads++
	return m.existing, m.tableErr
}

func (m *mockStore) Close() error {
	m.closed++
	return nil
}

// committed returns the transactions that committed, in order.
func (m *mockStore) committed() []*mockTx {
	var out []*mockTx
	for _, tx := range m.txs {
		if tx.committed {
			out = append(out, tx)
		}
	}
	return out
}

type mockTx struct {
	store *mockStore
	unit  int

	execs      []string
	cols       []pgcsv.Column
	rows       [][]any
	method     pgcsv.InsertMethod
	inserts    int
	committed  bool
	rolledBack bool
}

func (m *mockTx) Exec(_ context.Context, sql string, _ ...any) error {
	if m.store.execErr != nil {
		return m.store.execErr
	}
	m.execs = append(m.execs, sql)
	return nil
}

func (m *mockTx) InsertRows(_ context.Context, _ pgcsv.TableName, cols []pgcsv.Column, rows [][]any, method pgcsv.InsertMethod) (int64, error) {
	if m.store.insertErr != nil && (m.store.failOnUnit == 0 || m.store.failOnUnit == m.unit) {
		return 0, m.store.insertErr
	}
	m.inserts++
	m.cols = cols
	m.rows = append(m.rows, rows...)
	m.method = method
	return int64(len(rows)), nil
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.store.commitErr != nil {
		return m.store.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

type mockScanner struct {
	files []pgcsv.SourceFile
	err   error
}

func (m *mockScanner) Discover(_, _ string) ([]pgcsv.SourceFile, error) {
	return m.files, m.err
}

var errStoreRejected = errors.New("store rejected statement")
