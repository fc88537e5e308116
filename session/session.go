// Package session ties one namespace, one connector and one executor
// together as an independent unit of work, the way one editor tab
// owns its variables and connection.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datapyn/datapyn/connector"
	"github.com/datapyn/datapyn/cross"
	"github.com/datapyn/datapyn/logger"
	"github.com/datapyn/datapyn/table"
)

// HistoryEntry records one executed query fragment.
type HistoryEntry struct {
	Timestamp time.Time
	Variable  string
	Query     string
	Rows      int
}

// Session owns a namespace for the lifetime of one working session.
// All execution entry points hold the session lock: the executor
// itself is not safe for concurrent calls against one namespace.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time

	// Script is source preloaded from a workspace file, if any.
	Script string

	mu      sync.Mutex
	ns      map[string]any
	conn    connector.Connector
	exec    *cross.Executor
	history []HistoryEntry
}

func New(title string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
		ns:        map[string]any{},
		exec:      cross.New(nil),
	}
}

func (it *Session) SetConnector(conn connector.Connector) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.conn = conn
	it.exec.SetConnector(conn)
}

func (it *Session) Connector() connector.Connector {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.conn
}

func (it *Session) IsConnected() bool {
	conn := it.Connector()
	return conn != nil && conn.IsConnected()
}

// Execute runs mixed source against the session namespace and records
// one history entry per executed fragment. Fragments that completed
// before a failure are recorded too, so the history shows how far a
// failed run got.
func (it *Session) Execute(code string) (*cross.Outcome, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	outcome, err := it.exec.ParseAndExecute(code, it.ns)
	executed := 0
	if outcome != nil {
		executed = outcome.QueriesExecuted
	}
	for _, frag := range it.exec.ExtractQueries(code)[:executed] {
		rows := 0
		if tbl, ok := it.ns[frag.Var].(*table.Table); ok {
			rows = tbl.Len()
		}
		it.history = append(it.history, HistoryEntry{
			Timestamp: time.Now(),
			Variable:  frag.Var,
			Query:     frag.Query,
			Rows:      rows,
		})
	}
	if err != nil {
		return nil, err
	}
	logger.Debugf("session '%s' executed %d queries", it.Title, outcome.QueriesExecuted)
	return outcome, nil
}

// ExecuteSQL runs plain SQL outside the mixed language and binds the
// result under an auto-generated name (df1, df2, ...). The `df` alias
// always points at the most recent result.
func (it *Session) ExecuteSQL(query string) (string, *table.Table, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	tbl, err := it.exec.RunQuery(query)
	if err != nil {
		return "", nil, err
	}
	name := it.nextResultName()
	it.ns[name] = tbl
	it.ns["df"] = tbl
	it.history = append(it.history, HistoryEntry{
		Timestamp: time.Now(),
		Variable:  name,
		Query:     query,
		Rows:      tbl.Len(),
	})
	return name, tbl, nil
}

// Validate delegates to the syntax validator; no namespace or
// connector involved.
func (it *Session) Validate(code string) (bool, string) {
	return it.exec.ValidateSyntax(code)
}

func (it *Session) nextResultName() string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("df%d", i)
		if _, taken := it.ns[name]; !taken {
			return name
		}
	}
}

func (it *Session) Var(name string) (any, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	val, ok := it.ns[name]
	return val, ok
}

func (it *Session) SetVar(name string, val any) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.ns[name] = val
}

// Vars returns a snapshot of the namespace.
func (it *Session) Vars() map[string]any {
	it.mu.Lock()
	defer it.mu.Unlock()
	out := make(map[string]any, len(it.ns))
	for name, val := range it.ns {
		out[name] = val
	}
	return out
}

func (it *Session) ClearVars() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.ns = map[string]any{}
	logger.Debugf("session '%s' variables cleared", it.Title)
}

func (it *Session) History() []HistoryEntry {
	it.mu.Lock()
	defer it.mu.Unlock()
	return append([]HistoryEntry(nil), it.history...)
}
