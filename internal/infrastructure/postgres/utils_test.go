package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/turnos-api/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"fk", &pgconn.PgError{Code: "23503"}, domain.ErrConflict},
		{"conexión", &pgconn.PgError{Code: "08006"}, domain.ErrTransient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrTransient},
		{"deadline", context.DeadlineExceeded, domain.ErrTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("op", fmt.Errorf("envuelto: %w", tc.err))
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, tc.err, "conserva el error original")
		})
	}

	plain := errors.New("sintaxis")
	err := classify("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, domain.ErrTransient)
	assert.NoError(t, classify("op", nil))
}

func TestRead_ReintentaSoloTransitorios(t *testing.T) {
	c := conn{opt: Options{ReadRetries: 2}}

	calls := 0
	err := c.read(context.Background(), "op", func(ctx context.Context, q Querier) error {
		calls++
		return &pgconn.PgError{Code: "08006"}
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 3, calls)

	calls = 0
	err = c.read(context.Background(), "op", func(ctx context.Context, q Querier) error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: "57P01"}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = c.read(context.Background(), "op", func(ctx context.Context, q Querier) error {
		calls++
		return errors.New("permanente")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRead_AplicaTimeout(t *testing.T) {
	c := conn{opt: Options{OpTimeout: 20 * time.Millisecond}}
	err := c.read(context.Background(), "op", func(ctx context.Context, q Querier) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
}
