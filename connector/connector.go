package connector

import (
	"errors"

	"github.com/datapyn/datapyn/table"
)

// ErrNotConnected is returned whenever a query or statement is
// attempted without an active database connection. It is always
// checked up front, never inferred from a driver failure.
var ErrNotConnected = errors.New("no active database connection")

// Connector is the capability the execution core requires from a
// database backend.
type Connector interface {
	IsConnected() bool
	ExecuteQuery(query string) (*table.Table, error)
	ExecuteStatement(stmt string) (int64, error)
}
