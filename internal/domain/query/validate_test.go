package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr error
	}{
		{"simple select", "SELECT 1", nil},
		{"trailing terminator", "SELECT uuid FROM activities;\n", nil},
		{"columns that look like keywords", "SELECT created_at, updated_at, deleted FROM users", nil},
		{"keyword inside literal", "SELECT * FROM activities WHERE message = 'DROP TABLE users; --'", nil},
		{"keyword inside comment", "-- delete me later\nSELECT 1", nil},
		{"cte", "WITH recent AS (SELECT * FROM activities) SELECT * FROM recent", nil},
		{"empty", "   ", ErrEmptyStatement},
		{"only comment", "/* nothing */", ErrEmptyStatement},
		{"two statements", "SELECT 1; SELECT 2", ErrMultipleStatements},
		{"delete", "DELETE FROM activities", ErrForbiddenOperation},
		{"lowercase update", "update users set handle = 'x'", ErrForbiddenOperation},
		{"insert in cte", "WITH x AS (INSERT INTO t VALUES (1) RETURNING *) SELECT * FROM x", ErrForbiddenOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sql)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTrimTerminator(t *testing.T) {
	assert.Equal(t, "SELECT 1", TrimTerminator("  SELECT 1 ;\n ;"))
	assert.Equal(t, "SELECT 1", TrimTerminator("SELECT 1"))
}

func TestStripKeepsLength(t *testing.T) {
	sql := "SELECT 'a''b' AS x, \"weird;col\" -- note\nFROM t /* c */"
	stripped := Strip(sql)
	assert.Len(t, stripped, len(sql))
	assert.NotContains(t, stripped, "weird")
	assert.NotContains(t, stripped, "note")
	assert.Contains(t, stripped, "FROM t")
}

func TestPlaceholders(t *testing.T) {
	sql := `SELECT * FROM activities
WHERE handle = @handle
  AND message ILIKE '%' || @search_term || '%'
  AND owner = @handle
  AND note <> '@not_a_param'
  AND tsv @@ to_tsquery(@query)`

	assert.Equal(t, []string{"handle", "search_term", "query"}, Placeholders(sql))
	assert.Empty(t, Placeholders("SELECT 1"))
}

func TestMissing(t *testing.T) {
	sql := "SELECT * FROM users WHERE handle = @handle AND uuid = @uuid"

	assert.Equal(t, []string{"uuid"}, Missing(sql, map[string]any{"handle": "andrewbrown"}))
	assert.Empty(t, Missing(sql, map[string]any{"handle": "a", "uuid": "b", "extra": 1}))
	assert.Equal(t, []string{"handle", "uuid"}, Missing(sql, nil))
}
