package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatusCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"default", true},
		{"200", true},
		{"100", true},
		{"599", true},
		{"2XX", true},
		{"4xx", true},
		{"099", false},
		{"600", false},
		{"6XX", false},
		{"20", false},
		{"2000", false},
		{"abc", false},
		{"2X0", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidStatusCode(tt.code))
		})
	}
}

func TestIsMethod(t *testing.T) {
	for _, m := range []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch, MethodTrace} {
		assert.True(t, IsMethod(m), m)
	}
	assert.False(t, IsMethod("GET"))
	assert.False(t, IsMethod("parameters"))
	assert.False(t, IsMethod("x-internal"))
}

func TestMediaTypes(t *testing.T) {
	assert.Equal(t, "application/json", MediaBase(" Application/JSON; charset=utf-8"))
	assert.True(t, IsJSONMedia("application/json"))
	assert.True(t, IsJSONMedia("application/problem+json"))
	assert.True(t, IsJSONMedia("APPLICATION/JSON;charset=utf-8"))
	assert.False(t, IsJSONMedia("text/plain"))
	assert.False(t, IsJSONMedia("application/xml"))
}
