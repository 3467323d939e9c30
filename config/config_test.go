package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Setenv("MATCHAI_TEST_VALUE", "  ")
	assert.Equal(t, "fallback", Default("MATCHAI_TEST_VALUE", "fallback"))

	t.Setenv("MATCHAI_TEST_VALUE", "gemini")
	assert.Equal(t, "gemini", Default("MATCHAI_TEST_VALUE", "fallback"))
}

func TestInt(t *testing.T) {
	t.Setenv("MATCHAI_TEST_INT", "42")
	assert.Equal(t, 42, Int("MATCHAI_TEST_INT", 7))

	t.Setenv("MATCHAI_TEST_INT", "forty-two")
	assert.Equal(t, 7, Int("MATCHAI_TEST_INT", 7))
}

func TestBool(t *testing.T) {
	t.Setenv("MATCHAI_TEST_BOOL", "true")
	assert.True(t, Bool("MATCHAI_TEST_BOOL", false))

	t.Setenv("MATCHAI_TEST_BOOL", "")
	assert.True(t, Bool("MATCHAI_TEST_BOOL", true))
}

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 8 * time.Second},
		{"15", 15 * time.Second},
		{"1m30s", 90 * time.Second},
		{"soon", 8 * time.Second},
	}
	for _, c := range cases {
		t.Setenv("MATCHAI_TEST_DURATION", c.raw)
		assert.Equal(t, c.want, Duration("MATCHAI_TEST_DURATION", 8*time.Second), c.raw)
	}
}
