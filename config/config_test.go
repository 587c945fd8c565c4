package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "exhibition", cfg.FormVariant)
	assert.Equal(t, 15*time.Second, cfg.DispatchTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://api.qrserver.com/v1/create-qr-code/", cfg.QRServiceURL)
	assert.Equal(t, 300, cfg.QRSize)
	assert.Empty(t, cfg.DispatchEndpoint)
	assert.Empty(t, cfg.FormURL())
}

func TestLoad_Precedence(t *testing.T) {
	chdir(t, t.TempDir())

	configFile := filepath.Join(t.TempDir(), "jobfair.env")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"QR_FORM_URL=https://file.example.com/form\nSERVER_PORT=9000\nFORM_VARIANT=phd\n",
	), 0o600))

	tests := []struct {
		name        string
		env         map[string]string
		explicit    map[string]any
		wantFormURL string
		wantPort    int
	}{
		{
			name:        "config file over defaults",
			wantFormURL: "https://file.example.com/form",
			wantPort:    9000,
		},
		{
			name:        "environment over config file",
			env:         map[string]string{"JOBFAIR_QR_FORM_URL": "https://env.example.com/form"},
			wantFormURL: "https://env.example.com/form",
			wantPort:    9000,
		},
		{
			name:        "explicit value over environment",
			env:         map[string]string{"JOBFAIR_QR_FORM_URL": "https://env.example.com/form"},
			explicit:    map[string]any{"QR_FORM_URL": "https://flag.example.com/form", "SERVER_PORT": 7000},
			wantFormURL: "https://flag.example.com/form",
			wantPort:    7000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			v := viper.New()
			for key, value := range tt.explicit {
				v.Set(key, value)
			}

			cfg, err := Load(v, configFile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormURL, cfg.FormURL())
			assert.Equal(t, tt.wantPort, cfg.ServerPort)
			assert.Equal(t, "phd", cfg.FormVariant)
		})
	}
}

func TestLoad_WorkingDirectoryConfigFile(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string][]byte
		wantPort int
	}{
		{
			name:     "jobfair.env is read",
			files:    map[string][]byte{"jobfair.env": []byte("SERVER_PORT=9100\n")},
			wantPort: 9100,
		},
		{
			name:     "built binary next to it is ignored",
			files:    map[string][]byte{"jobfair": {0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00, '\n', 0x00}},
			wantPort: 8080,
		},
		{
			name: "binary and jobfair.env together",
			files: map[string][]byte{
				"jobfair":     {0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00, '\n', 0x00},
				"jobfair.env": []byte("SERVER_PORT=9200\n"),
			},
			wantPort: 9200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, data := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o755))
			}
			chdir(t, dir)

			cfg, err := Load(viper.New(), "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.ServerPort)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{ServerPort: 8080, DispatchTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.ServerPort = 70000 }, wantErr: true},
		{name: "no timeout", mutate: func(c *Config) { c.DispatchTimeout = 0 }, wantErr: true},
		{name: "negative qr size", mutate: func(c *Config) { c.QRSize = -1 }, wantErr: true},
		{
			name:    "digest key too long",
			mutate:  func(c *Config) { c.DiagnosticsEmailDigestKey = string(make([]byte, 65)) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestConfig_FormURLFallsBackToBaseURL(t *testing.T) {
	cfg := Config{ServerBaseURL: "https://jobfair.example.com"}
	assert.Equal(t, "https://jobfair.example.com", cfg.FormURL())
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
