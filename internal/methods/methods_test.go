package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableOrder(t *testing.T) {
	want := []string{
		"DELETE", "GET", "HEAD", "POST", "PUT", "CONNECT", "OPTIONS", "TRACE",
		"COPY", "LOCK", "MKCOL", "MOVE", "PROPFIND", "PROPPATCH", "SEARCH",
		"UNLOCK", "BIND", "REBIND", "UNBIND", "ACL", "REPORT", "MKACTIVITY",
		"CHECKOUT", "MERGE", "M-SEARCH", "NOTIFY", "SUBSCRIBE", "UNSUBSCRIBE",
		"PATCH", "PURGE", "MKCALENDAR", "LINK", "UNLINK",
	}
	require.Equal(t, want, Table)
}

func TestIndex(t *testing.T) {
	i, ok := Index("GET")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "GET", Name(i))

	_, ok = Index("get")
	assert.False(t, ok, "method lookup is case-sensitive")

	_, ok = Index("FROB")
	assert.False(t, ok)
}

func TestConnectIndex(t *testing.T) {
	assert.Equal(t, "CONNECT", Name(Connect))
}
