package users

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/backend/pkg/response"
)

func TestMapUniqueViolation(t *testing.T) {
	cases := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_key", "email"},
		{"something_else", ""},
	}
	for _, tc := range cases {
		err := mapUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})
		var fieldErrs response.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, tc.field, fieldErrs[0].Field)
	}
}

func TestMapUniqueViolation_PassThrough(t *testing.T) {
	assert.NoError(t, mapUniqueViolation(nil))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapUniqueViolation(plain))

	// Other pg errors (e.g. FK violations) are not validation failures.
	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fk), mapUniqueViolation(fk))
}
