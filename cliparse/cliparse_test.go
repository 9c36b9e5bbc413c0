// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/db"
)

var configKeys = []string{
	"PORT", "DATABASE_TYPE", "DATABASE_URL", "DATA_DIR", "PUBLIC_BASE_URL",
	"ADMIN_KEY_SALT", "SLACK_WEBHOOK_URL", "SUMMARIZER_URL", "SUMMARIZER_PROMPT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/x")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, db.Postgres, cfg.DatabaseType)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, "test-salt", cfg.AdminKeySalt)
	assert.Equal(t, "https://hooks.slack.test/x", cfg.WebhookURL)
	assert.Equal(t, "http://localhost:9000", cfg.PublicBaseURL)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_KEY_SALT", "env-salt")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "test.db", "-admin-salt", "s1", "-base-url", "https://polls.example.com"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test.db", cfg.DatabaseURL)
	assert.Equal(t, "s1", cfg.AdminKeySalt)
	assert.Equal(t, "https://polls.example.com", cfg.PublicBaseURL)
}

func TestParseFlags_SQLiteDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "s")
	t.Setenv("DATA_DIR", "/var/lib/polls")

	cfg, err := ParseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, db.SQLite, cfg.DatabaseType)
	assert.Equal(t, filepath.Join("/var/lib/polls", "polls.db"), cfg.DatabaseURL)
	assert.Empty(t, cfg.WebhookURL)
	assert.Empty(t, cfg.SummarizerURL)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing admin salt", nil, nil},
		{"postgres without url", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-t", "postgres"}},
		{"bad port", map[string]string{"ADMIN_KEY_SALT": "s", "PORT": "eighty"}, nil},
		{"bad database type", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-t", "mysql"}},
		{"unknown flag", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-slug-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ADMIN_KEY_SALT")
	os.Unsetenv("SUMMARIZER_URL")
	t.Cleanup(func() {
		os.Unsetenv("ADMIN_KEY_SALT")
		os.Unsetenv("SUMMARIZER_URL")
	})
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "ADMIN_KEY_SALT=from-file\nSUMMARIZER_URL=http://llm.local/summarize\nPORT=1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := ParseFlags([]string{"-env-file", path})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.AdminKeySalt)
	assert.Equal(t, "http://llm.local/summarize", cfg.SummarizerURL)
	// Variables already in the environment win
	assert.Equal(t, 7000, cfg.Port)
}

func TestParseFlags_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "s")

	_, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}
