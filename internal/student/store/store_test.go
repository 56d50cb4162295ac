package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuspay/campuspay/internal/student"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "DeadlineExceeded", err: context.DeadlineExceeded, want: student.ErrUnavailable},
		{name: "ConnDone", err: sql.ErrConnDone, want: student.ErrUnavailable},
		{name: "BadConn", err: driver.ErrBadConn, want: student.ErrUnavailable},
		{name: "OtherErrorsPassThrough", err: errors.New("syntax error"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapErr("creating student", tt.err)

			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
				return
			}

			assert.NotErrorIs(t, got, student.ErrUnavailable)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
