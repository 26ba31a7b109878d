package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
}

func TestIsInvalidQuantity(t *testing.T) {
	assert.True(t, isInvalidQuantity(pgErr(codeCheckViolation)))
	assert.True(t, isInvalidQuantity(pgErr(codeNumericOutOfRange)), "cantidad fuera de INTEGER")
	assert.False(t, isInvalidQuantity(pgErr(codeUniqueViolation)))
	assert.False(t, isInvalidQuantity(errors.New("conexión cerrada")))
}

func TestIsConflict(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
		assert.True(t, isConflict(pgErr(code)), code)
	}
	assert.False(t, isConflict(pgErr(codeNumericOutOfRange)))
	assert.False(t, isConflict(nil))
}
