package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Checkout.LoanDays)
	assert.Equal(t, 14*24*time.Hour, cfg.Checkout.LoanPeriod())
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.False(t, cfg.MQ.Enabled)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := `
server:
  port: 9090
  mode: debug
database:
  host: db.local
  port: 3307
  user: library
  password: from-file
  dbname: library
  charset: utf8mb4
  parse_time: true
  loc: Asia/Shanghai
checkout:
  loan_days: 7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)
	t.Setenv("LIBRARY_DATABASE_PASSWORD", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Checkout.LoanDays)
	assert.Equal(t, "from-env", cfg.Database.Password, "环境变量应覆盖配置文件")
	assert.Equal(t,
		"library:from-env@tcp(db.local:3307)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		cfg.Database.DSN())
}

func TestLoad_Validate(t *testing.T) {
	t.Run("release模式禁止默认密钥", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("LIBRARY_SERVER_MODE", "release")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT密钥")
	})

	t.Run("借阅天数必须大于0", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("LIBRARY_CHECKOUT_LOAN_DAYS", "0")

		_, err := Load()
		assert.ErrorContains(t, err, "借阅天数")
	})
}

func TestLoadClient(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LIBRARY_CLIENT_API_BASE", "http://library.local:8080/")
	t.Setenv("LIBRARY_CLIENT_TIMEOUT", "3s")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://library.local:8080", cfg.APIBase)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.TokenFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
