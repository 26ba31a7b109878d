package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE relevantes.
const (
	codeNumericOutOfRange    = "22003" // valor fuera de INTEGER
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03" // lock_timeout
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isInvalidQuantity la base rechazó una cantidad: un CHECK (ej. stock_quantity >= 0) o un
// valor que no cabe en INTEGER.
func isInvalidQuantity(err error) bool {
	switch pgCode(err) {
	case codeCheckViolation, codeNumericOutOfRange:
		return true
	}
	return false
}

// isConflict fallo de serialización, deadlock o lock_timeout: la transacción se abortó y puede
// repetirse completa.
func isConflict(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// isUUID evita mandar a la base ids mal formados (22P02); se tratan como inexistentes.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
