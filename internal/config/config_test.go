package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("APP_OUTPUT_DIR", filepath.Join(dir, "processed"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Gemini.Model)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
	assert.Equal(t, 5, cfg.App.MaxSearchResults)
	assert.Contains(t, cfg.App.AllowedFormats, ".jpg")

	// Load creates both working directories.
	for _, d := range []string{cfg.App.UploadDir, cfg.App.OutputDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestMirrorConfig_EnabledRequiresAllCredentials(t *testing.T) {
	m := MirrorConfig{}
	assert.False(t, m.Enabled())

	m = MirrorConfig{BucketName: "images"}
	assert.False(t, m.Enabled())

	m = MirrorConfig{BucketName: "images", AccessKeyID: "key"}
	assert.False(t, m.Enabled())

	m = MirrorConfig{BucketName: "images", AccessKeyID: "key", SecretAccessKey: "secret"}
	assert.True(t, m.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_UPLOAD_DIR", filepath.Join(dir, "u"))
	t.Setenv("APP_OUTPUT_DIR", filepath.Join(dir, "o"))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MIRROR_BUCKET_NAME", "my-bucket")
	t.Setenv("MIRROR_ACCESS_KEY_ID", "ak")
	t.Setenv("MIRROR_SECRET_ACCESS_KEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.True(t, cfg.Mirror.Enabled())
}
