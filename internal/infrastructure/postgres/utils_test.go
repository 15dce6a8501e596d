package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%gasa\_50\%%`, likePattern("Gasa_50%"))
}

func TestPaginate(t *testing.T) {
	q, args := paginate("SELECT 1 WHERE a = $1", []any{"x"}, 10, 20)
	assert.Equal(t, "SELECT 1 WHERE a = $1 LIMIT $2 OFFSET $3", q)
	assert.Equal(t, []any{"x", 10, 20}, args)
}

func TestMovementRange_MismoFiltroParaListarYContar(t *testing.T) {
	where, args := movementRange("it-1", nil, nil)
	assert.Equal(t, " WHERE item_id = $1", where)
	assert.Equal(t, []any{"it-1"}, args)

	from := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	where, args = movementRange("it-1", &from, &to)
	assert.Equal(t, " WHERE item_id = $1 AND date >= $2 AND date <= $3", where)
	assert.Equal(t, []any{"it-1", from, to}, args)

	where, args = movementRange("it-1", nil, &to)
	assert.Equal(t, " WHERE item_id = $1 AND date <= $2", where)
	assert.Len(t, args, 2)
}
