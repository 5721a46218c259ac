package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestDBHealthChecker(t *testing.T) {
	ok := NewDBHealthChecker(fakePinger{})
	assert.Equal(t, "database", ok.Name())
	assert.NoError(t, ok.Check(context.Background()))

	down := NewDBHealthChecker(fakePinger{err: errors.New("connection refused")})
	assert.EqualError(t, down.Check(context.Background()), "connection refused")
}
