package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedMap(t *testing.T) {
	Env = map[string]string{"PIXELSHRINK_TEST_KEY": "from-file"}
	t.Cleanup(func() { Env = nil })
	t.Setenv("PIXELSHRINK_TEST_KEY", "from-os")

	assert.Equal(t, "from-file", GetEnv("PIXELSHRINK_TEST_KEY", "def"))
}

func TestGetEnvFallbacks(t *testing.T) {
	Env = nil
	t.Setenv("PIXELSHRINK_TEST_OS", "from-os")

	assert.Equal(t, "from-os", GetEnv("PIXELSHRINK_TEST_OS", "def"))
	assert.Equal(t, "def", GetEnv("PIXELSHRINK_TEST_MISSING", "def"))
}

func TestTypedGetters(t *testing.T) {
	Env = map[string]string{
		"INT_OK":   "42",
		"INT_BAD":  "x",
		"DUR_OK":   "90s",
		"DUR_BAD":  "soon",
		"BOOL_ON":  "true",
		"BOOL_OFF": "0",
	}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, 42, GetInt("INT_OK", 1))
	assert.Equal(t, 1, GetInt("INT_BAD", 1))
	assert.Equal(t, 90*time.Second, GetDuration("DUR_OK", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("DUR_BAD", time.Minute))
	assert.True(t, GetBool("BOOL_ON", false))
	assert.False(t, GetBool("BOOL_OFF", true))
	assert.True(t, GetBool("BOOL_MISSING", true))
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	t.Cleanup(func() { Env = nil })
	assert.True(t, IsDev())

	Env = map[string]string{"APP_ENV": "prod"}
	assert.False(t, IsDev())
}
