package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Verify(t *testing.T) {
	g := NewGate("s3cret")

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"exact match", "s3cret", true},
		{"wrong", "admin123", false},
		{"empty", "", false},
		{"prefix", "s3cre", false},
		{"longer", "s3cret!", false},
		{"case differs", "S3CRET", false},
		{"trailing space", "s3cret ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Verify(tt.candidate))
		})
	}
	assert.False(t, g.UsingDefault())
}

func TestGate_DefaultSecret(t *testing.T) {
	for _, secret := range []string{"", DefaultAdminPassword} {
		g := NewGate(secret)
		assert.True(t, g.UsingDefault())
		assert.True(t, g.Verify("admin123"))
		assert.False(t, g.Verify(""))
	}
}

func TestGate_NilRejects(t *testing.T) {
	var g *Gate
	assert.False(t, g.Verify("anything"))
	assert.False(t, g.UsingDefault())
}
