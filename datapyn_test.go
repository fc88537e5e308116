package datapyn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datapyn/datapyn/table"
)

type stubConn struct{}

func (it *stubConn) IsConnected() bool {
	return true
}

func (it *stubConn) ExecuteQuery(query string) (*table.Table, error) {
	return table.New([]string{"n"}, [][]any{{int64(1)}}), nil
}

func (it *stubConn) ExecuteStatement(stmt string) (int64, error) {
	return 1, nil
}

func TestSessionLifecycle(t *testing.T) {
	config := &Config{}
	config.AddConnector("main", &stubConn{})
	ins := New(config)

	sess := ins.NewSession("scratch")
	assert.True(t, sess.IsConnected())
	assert.Same(t, sess, ins.Session(sess.ID))

	other := ins.NewSession("report")
	assert.Len(t, ins.Sessions(), 2)
	assert.Equal(t, []string{"scratch", "report"},
		[]string{ins.Sessions()[0].Title, ins.Sessions()[1].Title})

	ins.CloseSession(sess.ID)
	assert.Nil(t, ins.Session(sess.ID))
	assert.Len(t, ins.Sessions(), 1)
	assert.Same(t, other, ins.Sessions()[0])
}

func TestFirstConnectorBecomesMain(t *testing.T) {
	config := &Config{}
	first := &stubConn{}
	config.AddConnector("first", first).AddConnector("second", &stubConn{})

	assert.Same(t, first, config.MainConnector())
	assert.Same(t, first, config.GetConnector("first"))
	assert.Nil(t, config.GetConnector("missing"))
}

func TestScriptScan(t *testing.T) {
	dir := t.TempDir()
	code := "t = {{SELECT 1}}\nprint(len(t))"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "report.dpn"), []byte(code), 0666))
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0777))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "totals.dpn"), []byte("x = {{SELECT 2}}"), 0666))

	config := &Config{ScriptScan: filepath.Join(dir, "**", "*.dpn")}
	config.AddConnector("main", &stubConn{})
	ins := New(config)

	sessions := ins.Sessions()
	assert.Len(t, sessions, 2)
	titles := []string{sessions[0].Title, sessions[1].Title}
	assert.Contains(t, titles, "report")
	assert.Contains(t, titles, "totals")
	for _, sess := range sessions {
		assert.NotEmpty(t, sess.Script)
		assert.True(t, sess.IsConnected())
	}

	// preloaded scripts execute like any other session source
	for _, sess := range sessions {
		if sess.Title == "report" {
			outcome, err := sess.Execute(sess.Script)
			assert.NoError(t, err)
			assert.Equal(t, 1, outcome.QueriesExecuted)
		}
	}
}
