package loader

import (
	"path/filepath"
	"testing"

	"github.com/erraggy/oassync/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"HTTPS://Example.COM/api.yaml", "https://example.com/api.yaml"},
		{"https://example.com:443/api.yaml#frag", "https://example.com/api.yaml"},
		{"http://example.com:80/v1/openapi.json?x=1", "http://example.com/v1/openapi.json?x=1"},
		{"http://example.com:8080/api", "http://example.com:8080/api"},
		{"https://example.com", "https://example.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := NormalizeKey(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("relative path", func(t *testing.T) {
		got, err := NormalizeKey("specs/../api.yaml")
		require.NoError(t, err)
		want, err := filepath.Abs("api.yaml")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NormalizeKey("  ")
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("url without host", func(t *testing.T) {
		_, err := NormalizeKey("https://")
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}

func TestContentHint(t *testing.T) {
	assert.Equal(t, "json", contentHint("application/json; charset=utf-8", "x"))
	assert.Equal(t, "yaml", contentHint("application/yaml", "x.json"))
	assert.Equal(t, "yaml", contentHint("", "/a/b.YML"))
	assert.Equal(t, "json", contentHint("text/plain", "https://x/spec.json?v=2"))
	assert.Equal(t, "", contentHint("", "spec"))
}
