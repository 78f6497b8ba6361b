package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_Format(t *testing.T) {
	l := NewStdLogger("[bank]")
	out := l.format("deposit made",
		String("account", "12345"),
		Int("count", 2),
		Error(errors.New("boom")),
	)
	assert.Equal(t, "[bank] deposit made account=12345 count=2 error=boom", out)
}

func TestStdLogger_WithFields(t *testing.T) {
	l := NewStdLogger("")
	child := l.WithFields(String("component", "eventstore"))

	std, ok := child.(*StdLogger)
	assert.True(t, ok)
	assert.Equal(t, " hello component=eventstore", std.format("hello"))

	// 父Logger不受影响
	assert.Empty(t, l.fields)
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	// 不应panic
	l.Debug(context.Background(), "x")
	l.Info(context.Background(), "x")
	l.Warn(context.Background(), "x")
	l.Error(context.Background(), "x", Error(errors.New("ignored")))
	assert.Equal(t, l, l.WithFields(String("a", "b")))
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	noop := NewNoopLogger()
	SetLogger(noop)
	assert.Equal(t, Logger(noop), GetLogger())
	assert.Equal(t, Logger(noop), ComponentLogger("any"))
}
