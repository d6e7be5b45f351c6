package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "", want: SQLite},
		{in: "sqlite3", want: SQLite},
		{in: " Postgres ", want: Postgres},
		{in: "postgresql", want: Postgres},
		{in: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	q := "UPDATE orders SET status = ? WHERE id = ? AND status = ?"

	lite := Wrap(nil, SQLite)
	assert.Equal(t, q, lite.Rebind(q))

	pg := Wrap(nil, Postgres)
	assert.Equal(t, "UPDATE orders SET status = $1 WHERE id = $2 AND status = $3", pg.Rebind(q))
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
