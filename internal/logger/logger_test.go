package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "AIza-secret", "email", "u@x.com", "topic", "Physics"})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.NotEqual(t, "u@x.com", out[3])
	assert.Contains(t, out[3], "hash:")
	assert.Equal(t, "Physics", out[5])
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"topic", "Physics", "dangling"})
	assert.Len(t, out, 3)
	assert.Equal(t, "dangling", out[2])
}

func TestHashValue_Stable(t *testing.T) {
	assert.Equal(t, hashValue("a@b.c"), hashValue("a@b.c"))
	assert.Equal(t, "", hashValue(""))
}
