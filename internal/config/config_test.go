package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "EXAM_SIZE", "SESSION_IDLE_TTL", "RECORD_DRIVER", "COOKIE_SECURE", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	require.Equal(t, ModeOffline, c.Mode)
	require.Equal(t, 15, c.ExamSize)
	require.Equal(t, 6*time.Hour, c.SessionIdleTTL)
	require.Equal(t, "sql", c.RecordDriver)
	require.False(t, c.CookieSecure)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.CORSOrigins())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("EXAM_SIZE", "20")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	t.Setenv("COOKIE_SECURE", "")
	c := FromEnv()
	require.Equal(t, 20, c.ExamSize)
	require.Equal(t, 45*time.Minute, c.SessionIdleTTL)
	require.True(t, c.CookieSecure)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(f, []byte("ARCHQUIZ_TEST_ONLY=from-file\nEXAM_SIZE=99\n"), 0o644))
	t.Setenv("EXAM_SIZE", "7")
	t.Cleanup(func() { os.Unsetenv("ARCHQUIZ_TEST_ONLY") })

	require.NoError(t, LoadDotEnv(f, filepath.Join(dir, "absent.env")))
	require.Equal(t, "from-file", os.Getenv("ARCHQUIZ_TEST_ONLY"))
	require.Equal(t, "7", os.Getenv("EXAM_SIZE"))
}
