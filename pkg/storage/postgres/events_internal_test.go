package postgres

import (
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/require"
)

// PostgreSQL rejects FOR UPDATE combined with aggregate functions, so the
// stream-head read must lock a plain row, newest version first.
func TestStreamHeadQuery_LockableRowRead(t *testing.T) {
	p := &PgSQL{Builder: goqu.Dialect("postgres").DB(&sql.DB{})}

	query, _, err := p.streamHeadQuery(1).ToSQL()
	require.NoError(t, err)

	require.Contains(t, query, `"aggregate_id" = 1`)
	require.Contains(t, query, "FOR UPDATE")
	require.Contains(t, query, `ORDER BY "version" DESC`)
	require.Contains(t, query, "LIMIT")
	require.NotContains(t, query, "MAX(")
	require.NotContains(t, query, "COALESCE")
}
