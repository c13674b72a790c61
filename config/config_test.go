package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LIBRARY_AUTH__SECRET", "auth.secret"},
		{"LIBRARY_CIRCULATION__LOAN_DAYS", "circulation.loan_days"},
		{"LIBRARY_SERVER__FRONTEND_URL", "server.frontend_url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 10
auth:
  secret: from-file
  token_ttl: 2h
circulation:
  loan_days: 7
smtp:
  host: smtp.example.com
  port: 2525
  from: "Library <noreply@example.com>"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LIBRARY_AUTH__SECRET", "from-env")

	conf, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, conf.Server.Port)
	assert.Equal(t, 10*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, "from-env", conf.Auth.Secret)
	assert.Equal(t, 2*time.Hour, conf.Auth.TokenTTL)
	assert.Equal(t, 7, conf.Circulation.LoanDays)
	// 未配置时使用默认值
	assert.Equal(t, 3, conf.Circulation.MaxActiveBorrowings)
	assert.Equal(t, "smtp.example.com", conf.SMTP.Host)
	assert.Equal(t, 2525, conf.SMTP.Port)
	assert.True(t, conf.SMTP.Enabled())

	_, err = Read(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
