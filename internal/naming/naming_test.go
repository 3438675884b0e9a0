package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"user_profile", []string{"user", "profile"}},
		{"UserProfile", []string{"User", "Profile"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"pet-store.v2", []string{"pet", "store", "v2"}},
		{"userID", []string{"user", "ID"}},
		{"", nil},
		{"__", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Words(tt.input))
		})
	}
}

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		input  string
		pascal string
		camel  string
		snake  string
	}{
		{"user_profile", "UserProfile", "userProfile", "user_profile"},
		{"UserProfile", "UserProfile", "userProfile", "user_profile"},
		{"APIClient", "ApiClient", "apiClient", "api_client"},
		{"pet-store", "PetStore", "petStore", "pet_store"},
		{"Node", "Node", "node", "node"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.pascal, ToPascalCase(tt.input))
			assert.Equal(t, tt.camel, ToCamelCase(tt.input))
			assert.Equal(t, tt.snake, ToSnakeCase(tt.input))
		})
	}
}

func TestApply(t *testing.T) {
	assert.Equal(t, "petOwner", Apply(CamelCase, "PetOwner"))
	assert.Equal(t, "pet_owner", Apply(SnakeCase, "PetOwner"))
	assert.Equal(t, "PetOwner", Apply(PascalCase, "pet_owner"))
	assert.Equal(t, "PetOwner", Apply("unknown", "pet_owner"))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "Model", Identifier("", "Model"))
	assert.Equal(t, "_200Response", Identifier("200Response", "Model"))
	assert.Equal(t, "Pet", Identifier("Pet", "Model"))

	assert.True(t, IsIdentifier("pet_id"))
	assert.True(t, IsIdentifier("$ref"))
	assert.False(t, IsIdentifier("x-rate-limit"))
	assert.False(t, IsIdentifier("1st"))
	assert.False(t, IsIdentifier(""))
}
