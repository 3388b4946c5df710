package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ViolationKind classifies a storage-layer constraint rejection.
type ViolationKind string

const (
	ViolationUnique ViolationKind = "unique"
)

// ConstraintViolation is the structured form of a constraint rejection,
// decoded once per storage backend so nothing above this layer depends on
// driver error types.
type ConstraintViolation struct {
	Kind  ViolationKind
	Field string
	Value string
}

func (v *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s constraint violated on %s", v.Kind, v.Field)
}

// AsConstraintViolation extracts a ConstraintViolation from an error chain.
func AsConstraintViolation(err error) (*ConstraintViolation, bool) {
	var violation *ConstraintViolation
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}

const (
	pgUniqueViolationCode   = "23505"
	mysqlDuplicateEntryCode = 1062
)

// Key (email)=(a@example.com) already exists.
var pgDetailPattern = regexp.MustCompile(`\(([^)]+)\)=\(([^)]+)\)`)

// Duplicate entry 'a@example.com' for key 'users.uni_users_email'
var mysqlMessagePattern = regexp.MustCompile(`Duplicate entry '(.*)' for key '([^']+)'`)

// translateError inspects a store error for a recognizable unique-violation
// code and converts it into a ConstraintViolation. Everything else passes
// through untouched and must be treated as an internal store failure.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		violation := &ConstraintViolation{Kind: ViolationUnique}
		if m := pgDetailPattern.FindStringSubmatch(pgErr.Detail); m != nil {
			violation.Field = m[1]
			violation.Value = m[2]
		} else {
			violation.Field = pgErr.ConstraintName
		}
		return violation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntryCode {
		violation := &ConstraintViolation{Kind: ViolationUnique}
		if m := mysqlMessagePattern.FindStringSubmatch(myErr.Message); m != nil {
			violation.Value = m[1]
			violation.Field = lastSegment(m[2])
		}
		return violation
	}

	// sqlite reports "UNIQUE constraint failed: users.email"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed:") {
		parts := strings.SplitN(msg, "UNIQUE constraint failed:", 2)
		return &ConstraintViolation{
			Kind:  ViolationUnique,
			Field: lastSegment(strings.TrimSpace(parts[1])),
		}
	}

	return err
}

func lastSegment(name string) string {
	for _, sep := range []string{".", "_"} {
		if idx := strings.LastIndex(name, sep); idx >= 0 {
			name = name[idx+1:]
		}
	}
	return name
}
