// Package datapyn wires sessions, connectors and the mixed-language
// execution core together for embedding hosts (editor frontends,
// workers).
package datapyn

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/datapyn/datapyn/connector"
	"github.com/datapyn/datapyn/logger"
	"github.com/datapyn/datapyn/session"
)

// Config holds the registered connectors and sessions of one
// application instance.
type Config struct {
	// ScriptScan is a doublestar glob; every matching script file is
	// preloaded as a session at startup. Empty disables scanning.
	ScriptScan string

	mainConn connector.Connector
	conns    map[string]connector.Connector
	sessions map[string]*session.Session
	order    []string
}

func (it *Config) SetMainConnector(conn connector.Connector) {
	it.mainConn = conn
	logger.Debugf("set main connector")
}

func (it *Config) MainConnector() connector.Connector {
	return it.mainConn
}

func (it *Config) AddConnector(id string, conn connector.Connector) *Config {
	if it.conns == nil {
		it.conns = map[string]connector.Connector{}
	}
	if it.mainConn == nil {
		it.SetMainConnector(conn)
	}
	it.conns[id] = conn
	logger.Debugf("add connector '%s'", id)
	return it
}

func (it *Config) GetConnector(id string) connector.Connector {
	if conn, ok := it.conns[id]; ok {
		return conn
	}
	return nil
}

func (it *Config) addSession(sess *session.Session) {
	if it.sessions == nil {
		it.sessions = map[string]*session.Session{}
	}
	it.sessions[sess.ID] = sess
	it.order = append(it.order, sess.ID)
	logger.Debugf("add session '%s' (%s)", sess.Title, sess.ID)
}

type DataPyn struct {
	Config *Config
}

func New(config *Config) *DataPyn {
	ins := &DataPyn{Config: config}
	ins.scanScripts()
	return ins
}

// NewSession creates a session attached to the main connector and
// registers it.
func (it *DataPyn) NewSession(title string) *session.Session {
	sess := session.New(title)
	if it.Config.mainConn != nil {
		sess.SetConnector(it.Config.mainConn)
	}
	it.Config.addSession(sess)
	return sess
}

func (it *DataPyn) Session(id string) *session.Session {
	if sess, ok := it.Config.sessions[id]; ok {
		return sess
	}
	return nil
}

// Sessions returns every session in creation order.
func (it *DataPyn) Sessions() []*session.Session {
	list := make([]*session.Session, 0, len(it.Config.order))
	for _, id := range it.Config.order {
		if sess, ok := it.Config.sessions[id]; ok {
			list = append(list, sess)
		}
	}
	return list
}

func (it *DataPyn) CloseSession(id string) {
	if _, ok := it.Config.sessions[id]; !ok {
		return
	}
	delete(it.Config.sessions, id)
	for i, sid := range it.Config.order {
		if sid == id {
			it.Config.order = append(it.Config.order[:i], it.Config.order[i+1:]...)
			break
		}
	}
	logger.Debugf("close session '%s'", id)
}

func (it *DataPyn) scanScripts() {
	pattern := strings.TrimSpace(it.Config.ScriptScan)
	if pattern == "" {
		return
	}
	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Error(err.Error())
			continue
		}
		title := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		sess := it.NewSession(title)
		sess.Script = string(content)
		logger.Debugf("loaded script '%s' [%s]", title, file)
	}
}
