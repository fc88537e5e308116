package datapyn

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapyn/datapyn/connector"
	"github.com/datapyn/datapyn/table"
)

func TestMixedExecutionEndToEnd(t *testing.T) {
	conn, err := connector.Open(&connector.Config{
		Type:     "sqlite3",
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecuteStatement("CREATE TABLE user (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)")
	assert.NoError(t, err)
	affected, err := conn.ExecuteStatement("INSERT INTO user (name, age) VALUES ('alice', 30), ('bob', 41)")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	config := &Config{}
	config.SetMainConnector(conn)
	ins := New(config)
	sess := ins.NewSession("report")

	code := "users = {{SELECT name, age FROM user ORDER BY age}}\n" +
		"print(len(users))\n" +
		"print(users[0]['name'])\n" +
		"_ = users['age']"
	ok, msg := sess.Validate(code)
	assert.True(t, ok)
	assert.Empty(t, msg)

	outcome, err := sess.Execute(code)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.QueriesExecuted)
	assert.Contains(t, outcome.Output, "2")
	assert.Contains(t, outcome.Output, "alice")
	assert.Equal(t, []any{int64(30), int64(41)}, outcome.Result)

	users, ok2 := sess.Var("users")
	assert.True(t, ok2)
	assert.Equal(t, 2, users.(*table.Table).Len())

	// a session-level dependency chain: the second fragment reads
	// state the first one created
	outcome, err = sess.Execute(
		"x = {{CREATE TABLE tmp (n INTEGER); INSERT INTO tmp VALUES (7); SELECT n FROM tmp}}\n" +
			"y = {{SELECT n FROM tmp}}\n" +
			"print(y[0][0])")
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.QueriesExecuted)
	assert.Contains(t, outcome.Output, "7")
}
