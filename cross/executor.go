package cross

import (
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/datapyn/datapyn/connector"
	"github.com/datapyn/datapyn/table"
)

func init() {
	// sessions rebind top-level names across runs and use plain
	// top-level control flow
	resolve.AllowSet = true
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
}

// Outcome is the structured result of one ParseAndExecute call.
type Outcome struct {
	// Output is everything the script printed.
	Output string
	// QueriesExecuted counts the fragments that ran.
	QueriesExecuted int
	// Result is the value bound to `_` by the script, if any.
	Result any
}

// Executor runs mixed {{ SQL }} + script source against a database
// connector and a caller-owned namespace. It is not safe for
// concurrent calls sharing one namespace; callers serialize, one
// session at a time.
type Executor struct {
	conn connector.Connector
}

func New(conn connector.Connector) *Executor {
	return &Executor{conn: conn}
}

// SetConnector swaps the connector; takes effect on the next call.
func (it *Executor) SetConnector(conn connector.Connector) {
	it.conn = conn
}

// ParseAndExecute extracts every fragment, runs each in source order
// binding its result table into ns, then executes the remaining
// script with ns predeclared. The first failing query aborts the
// whole call: later fragments and the script never run, ns keeps only
// what succeeded. On failure the returned outcome still reports how
// many fragments completed; a script failure propagates with its
// partial print output discarded.
func (it *Executor) ParseAndExecute(code string, ns map[string]any) (*Outcome, error) {
	fragments, processed := Extract(code)
	outcome := &Outcome{}
	for _, frag := range fragments {
		tbl, err := it.RunQuery(frag.Query)
		if err != nil {
			return outcome, err
		}
		ns[frag.Var] = tbl
		outcome.QueriesExecuted++
	}
	if strings.TrimSpace(processed) != "" {
		var captured strings.Builder
		thread := &starlark.Thread{
			Name: "datapyn",
			Print: func(_ *starlark.Thread, msg string) {
				captured.WriteString(msg)
				captured.WriteByte('\n')
			},
		}
		predeclared := starlark.StringDict{
			"query":   starlark.NewBuiltin("query", it.queryBuiltin),
			"execute": starlark.NewBuiltin("execute", it.executeBuiltin),
		}
		for name, val := range namespaceDict(ns) {
			predeclared[name] = val
		}
		globals, err := starlark.ExecFile(thread, "<script>", processed, predeclared)
		if err != nil {
			return outcome, err
		}
		for name, val := range globals {
			ns[name] = fromStarlark(val)
		}
		outcome.Output = captured.String()
		if val, ok := ns["_"]; ok {
			outcome.Result = val
		}
	}
	return outcome, nil
}

// ExtractQueries returns the fragments of code in source order
// without executing anything, e.g. to report which queries a source
// would run.
func (it *Executor) ExtractQueries(code string) []Fragment {
	fragments, _ := Extract(code)
	return fragments
}

// RunQuery executes one query against the connector and returns its
// table. The connection is checked before execution.
func (it *Executor) RunQuery(query string) (*table.Table, error) {
	if it.conn == nil || !it.conn.IsConnected() {
		return nil, connector.ErrNotConnected
	}
	return it.conn.ExecuteQuery(query)
}

// RunStatement executes one INSERT/UPDATE/DELETE style statement and
// returns the affected-row count, under the same connected check.
func (it *Executor) RunStatement(stmt string) (int64, error) {
	if it.conn == nil || !it.conn.IsConnected() {
		return 0, connector.ErrNotConnected
	}
	return it.conn.ExecuteStatement(stmt)
}

// query(sql) inside script code
func (it *Executor) queryBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var query string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &query); err != nil {
		return nil, err
	}
	return it.RunQuery(query)
}

// execute(sql) inside script code
func (it *Executor) executeBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var stmt string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &stmt); err != nil {
		return nil, err
	}
	affected, err := it.RunStatement(stmt)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt64(affected), nil
}
