package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("option errors", func(t *testing.T) {
		err := OptionError("icon_links", "`%s` must be a list of dictionaries, you provided type %s.", "icon_links", "str").Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.True(t, err.IsFatal())
		assert.False(t, err.CanRetry())
		assert.Equal(t, "`icon_links` must be a list of dictionaries, you provided type str.", err.Error())

		opt, ok := err.Field("option")
		require.True(t, ok)
		assert.Equal(t, "icon_links", opt)
	})

	t.Run("found through wrapping", func(t *testing.T) {
		inner := TemplateError("render failed").Build()
		wrapped := fmt.Errorf("hook: %w", inner)

		got, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, CategoryTemplate, got.Category())
		assert.True(t, HasCategory(wrapped, CategoryTemplate))
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
	})

	t.Run("network errors are not transient unless marked", func(t *testing.T) {
		assert.False(t, NetworkError("HTTP 404").Build().CanRetry())
		assert.True(t, NetworkError("HTTP 503").Retryable().Build().CanRetry())
	})
}

func TestWrapError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, CategoryNetwork, "fetch failed").Warning().Build()

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, SeverityWarning, err.Severity())
	assert.Equal(t, "fetch failed: connection refused", err.Error())
}

func TestWithContext_DoesNotMutate(t *testing.T) {
	base := ConfigError("x").Build()
	derived := base.WithContext("page", "index")

	_, ok := base.Field("page")
	assert.False(t, ok)
	v, ok := derived.Field("page")
	require.True(t, ok)
	assert.Equal(t, "index", v)
	assert.Len(t, derived.Fields(), 1)
}

func TestFields_AttrsSorted(t *testing.T) {
	attrs := Fields{"path": "/x", "option": "logo", "index": 2}.Attrs()
	require.Len(t, attrs, 3)
	assert.Equal(t, "index", attrs[0].Key)
	assert.Equal(t, "option", attrs[1].Key)
	assert.Equal(t, "path", attrs[2].Key)
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"config", ConfigError("x").Build(), 7},
		{"validation", ValidationError("x").Build(), 2},
		{"network", NetworkError("x").Build(), 8},
		{"template", TemplateError("x").Build(), 11},
		{"not found", NewError(CategoryNotFound, "x").Build(), 11},
		{"wrapped config", fmt.Errorf("outer: %w", ConfigError("x").Build()), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, adapter.ExitCodeFor(tc.err))
		})
	}
}

func TestCLIErrorAdapter_FormatAndLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	err := OptionError("logo", "Incorrect logo config type: %s", "str").Build()
	assert.Equal(t, "Configuration error: Incorrect logo config type: str", adapter.FormatError(err))
	assert.Equal(t, "Error: boom", adapter.FormatError(errors.New("boom")))

	adapter.Log(err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "category=config")
	assert.Contains(t, buf.String(), "option=logo")
}
