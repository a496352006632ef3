package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain"
)

func TestWrapWrite_UniqueViolationIsDuplicate(t *testing.T) {
	err := wrapWrite("create item", &pgconn.PgError{Code: "23505"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	other := wrapWrite("create item", fmt.Errorf("conexión cerrada"))
	assert.False(t, errors.Is(other, domain.ErrDuplicate))
	assert.Contains(t, other.Error(), "create item")
}

func TestNullableAndDeref(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "op-1", *nullable("op-1"))
	assert.Equal(t, "", deref(nil))
	s := "op-2"
	assert.Equal(t, "op-2", deref(&s))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f"))
	assert.False(t, isUUID("RM001"))
	assert.False(t, isUUID(""))
}

func TestPsql_UsesDollarPlaceholders(t *testing.T) {
	sql, args, err := psql.Select("id").From("items").
		Where(squirrel.Eq{"kind": []string{"raw_material", "finished"}}).
		OrderBy("kind", "code").Limit(10).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items WHERE kind IN ($1,$2) ORDER BY kind, code LIMIT 10", sql)
	assert.Len(t, args, 2)
}
