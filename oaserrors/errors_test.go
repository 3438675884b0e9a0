package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkError(t *testing.T) {
	t.Run("Error message with status", func(t *testing.T) {
		err := &NetworkError{URL: "https://example.com/api.yaml", Reason: NetworkStatus, StatusCode: 404}
		assert.Equal(t, "network error (status) fetching https://example.com/api.yaml: HTTP 404", err.Error())
	})

	t.Run("Is matches ErrTimeout only for timeouts", func(t *testing.T) {
		timeout := &NetworkError{Reason: NetworkTimeout}
		conn := &NetworkError{Reason: NetworkConnection}
		assert.True(t, errors.Is(timeout, ErrNetwork))
		assert.True(t, errors.Is(timeout, ErrTimeout))
		assert.True(t, errors.Is(conn, ErrNetwork))
		assert.False(t, errors.Is(conn, ErrTimeout))
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with pointer and line", func(t *testing.T) {
		err := &ParseError{Source: "api.yaml", Pointer: "/paths", Line: 3, Column: 5, Message: "boom"}
		assert.Equal(t, "parse error in api.yaml at /paths (line 3, column 5): boom", err.Error())
	})

	t.Run("Structure error points at first violation", func(t *testing.T) {
		err := NewStructureError("api.yaml", []Violation{
			{Pointer: "/info", Message: "missing required field 'info'"},
			{Pointer: "/paths/~1pets~1{id}", Message: "path parameter 'id' is not declared"},
		})
		assert.Equal(t, ParseStructure, err.Reason)
		assert.Equal(t, "/info", err.Pointer)
		assert.Contains(t, err.Error(), "and 1 more violation(s)")
		assert.Contains(t, Describe(err), "/paths/~1pets~1{id}: path parameter 'id' is not declared")
	})

	t.Run("As extracts ParseError", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ParseError{Pointer: "/openapi", Reason: ParseVersion})
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, ParseVersion, pe.Reason)
		assert.False(t, errors.Is(err, ErrNetwork))
	})
}

func TestFilesystemError(t *testing.T) {
	notFound := &FilesystemError{Path: "missing.yaml", Op: "read", Reason: FilesystemNotFound}
	denied := &FilesystemError{Path: "secret.yaml", Op: "read", Reason: FilesystemPermission}

	assert.Equal(t, "filesystem error (not-found) during read: missing.yaml", notFound.Error())
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.False(t, errors.Is(notFound, ErrPermission))
	assert.True(t, errors.Is(denied, ErrPermission))
	assert.True(t, errors.Is(denied, ErrFilesystem))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"network", &NetworkError{}, CategoryNetwork},
		{"parse", fmt.Errorf("x: %w", &ParseError{}), CategoryParse},
		{"filesystem", &FilesystemError{}, CategoryFilesystem},
		{"codegen", &CodegenError{}, CategoryCodegen},
		{"config", &ConfigError{Option: "target"}, CategoryConfig},
		{"cache", &CacheError{Reason: CacheWrite}, CategoryCache},
		{"other", errors.New("plain"), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.err))
		})
	}
}

func TestUnwrapChains(t *testing.T) {
	cause := errors.New("underlying")
	errs := []error{
		&NetworkError{Cause: cause},
		&ParseError{Cause: cause},
		&FilesystemError{Cause: cause},
		&CodegenError{Cause: cause},
		&ConfigError{Cause: cause},
		&CacheError{Cause: cause},
	}
	for _, err := range errs {
		assert.ErrorIs(t, err, cause, "%T should unwrap to its cause", err)
	}
}
