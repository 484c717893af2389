// AngelaMos | 2026
// sqlite_test.go

package core

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		wantBase    string
		wantTxLock  string
		wantBusy    string
		wantForeign string
	}{
		{
			name:       "bare path",
			dsn:        "librisys.db",
			wantBase:   "librisys.db",
			wantTxLock: "immediate",
			wantBusy:   "5000",
		},
		{
			name:        "keeps existing params",
			dsn:         "file:/tmp/x.db?_foreign_keys=on&_busy_timeout=100",
			wantBase:    "file:/tmp/x.db",
			wantTxLock:  "immediate",
			wantBusy:    "100",
			wantForeign: "on",
		},
		{
			name:       "explicit txlock wins",
			dsn:        "file:x.db?_txlock=exclusive",
			wantBase:   "file:x.db",
			wantTxLock: "exclusive",
			wantBusy:   "5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, rawQuery, ok := strings.Cut(sqliteDSN(tt.dsn), "?")
			require.True(t, ok)
			assert.Equal(t, tt.wantBase, base)

			params, err := url.ParseQuery(rawQuery)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTxLock, params.Get("_txlock"))
			assert.Equal(t, tt.wantBusy, params.Get("_busy_timeout"))
			assert.Equal(t, tt.wantForeign, params.Get("_foreign_keys"))
		})
	}
}
