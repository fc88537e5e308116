package connector

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/datapyn/datapyn/logger"
	"github.com/datapyn/datapyn/table"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Config describes one database target. Type is one of sqlite3,
// mysql, mariadb, postgresql.
type Config struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Params   map[string]string
}

// DBConnector implements Connector over database/sql.
type DBConnector struct {
	config *Config
	db     *sql.DB
}

// Open connects to the configured database and verifies the
// connection with a ping before returning.
func Open(config *Config) (*DBConnector, error) {
	driver, dsn, err := dsnOf(config)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Infof("connected to %s database '%s'", config.Type, config.Database)
	return &DBConnector{config: config, db: db}, nil
}

func dsnOf(config *Config) (string, string, error) {
	switch config.Type {
	case "sqlite3":
		return "sqlite3", config.Database, nil
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true",
			config.Username, config.Password, config.Host, config.Port, config.Database)
		for k, v := range config.Params {
			dsn += "&" + k + "=" + url.QueryEscape(v)
		}
		return "mysql", dsn, nil
	case "postgresql":
		query := url.Values{}
		if _, ok := config.Params["sslmode"]; !ok {
			query.Set("sslmode", "disable")
		}
		for k, v := range config.Params {
			query.Set(k, v)
		}
		dsn := fmt.Sprintf("postgres://%s@%s:%d/%s?%s",
			url.UserPassword(config.Username, config.Password),
			config.Host, config.Port, config.Database, query.Encode())
		return "postgres", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type '%s'", config.Type)
	}
}

func (it *DBConnector) Config() *Config {
	return it.config
}

func (it *DBConnector) DB() *sql.DB {
	return it.db
}

func (it *DBConnector) IsConnected() bool {
	return it.db != nil && it.db.Ping() == nil
}

// ExecuteQuery runs query text that may hold several ';' separated
// commands. Every command executes in order; the rows of the last
// SELECT-like command become the result. A batch with no row set
// yields a status table carrying the affected-row count.
func (it *DBConnector) ExecuteQuery(query string) (*table.Table, error) {
	if it.db == nil {
		return nil, ErrNotConnected
	}
	commands := splitCommands(query)
	if len(commands) == 0 {
		return table.Status("nothing to execute"), nil
	}
	for _, cmd := range commands[:len(commands)-1] {
		if _, err := it.db.Exec(cmd); err != nil {
			return nil, err
		}
	}
	last := commands[len(commands)-1]
	if returnsRows(last) {
		rows, err := it.db.Query(last)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		tbl, err := table.Scan(rows)
		if err != nil {
			return nil, err
		}
		logger.Debugf("query returned %d rows", tbl.Len())
		return tbl, nil
	}
	res, err := it.db.Exec(last)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected >= 0 {
		return table.Status(fmt.Sprintf("ok, %d row(s) affected", affected)), nil
	}
	return table.Status("ok"), nil
}

// ExecuteStatement runs one INSERT/UPDATE/DELETE style statement and
// returns the affected-row count.
func (it *DBConnector) ExecuteStatement(stmt string) (int64, error) {
	if it.db == nil {
		return 0, ErrNotConnected
	}
	res, err := it.db.Exec(stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (it *DBConnector) Close() error {
	if it.db == nil {
		return nil
	}
	err := it.db.Close()
	it.db = nil
	return err
}

func splitCommands(query string) []string {
	var commands []string
	for _, cmd := range strings.Split(query, ";") {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func returnsRows(cmd string) bool {
	head := strings.ToUpper(cmd)
	for _, prefix := range []string{"SELECT", "SHOW", "WITH", "PRAGMA", "EXPLAIN"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}
