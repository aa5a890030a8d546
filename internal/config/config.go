package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Mirror MirrorConfig
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// MirrorConfig holds the optional S3-compatible object storage settings.
// The mirror is enabled only when bucket and both credentials are present;
// otherwise the service runs with mirroring disabled.
type MirrorConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
	Folder          string
}

type AppConfig struct {
	UploadDir        string
	OutputDir        string
	MaxUploadSize    int64
	AllowedFormats   []string
	MaxSearchResults int
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
	viper.SetDefault("MIRROR_ENDPOINT", "")
	viper.SetDefault("MIRROR_ACCESS_KEY_ID", "")
	viper.SetDefault("MIRROR_SECRET_ACCESS_KEY", "")
	viper.SetDefault("MIRROR_USE_SSL", true)
	viper.SetDefault("MIRROR_BUCKET_NAME", "")
	viper.SetDefault("MIRROR_REGION", "us-east-1")
	viper.SetDefault("MIRROR_FOLDER", "photo-context")
	viper.SetDefault("APP_UPLOAD_DIR", "./uploads")
	viper.SetDefault("APP_OUTPUT_DIR", "./processed_images")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_ALLOWED_FORMATS", []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"})
	viper.SetDefault("APP_MAX_SEARCH_RESULTS", 5)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
			Model:  viper.GetString("GEMINI_MODEL"),
		},
		Mirror: MirrorConfig{
			Endpoint:        viper.GetString("MIRROR_ENDPOINT"),
			AccessKeyID:     viper.GetString("MIRROR_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("MIRROR_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("MIRROR_USE_SSL"),
			BucketName:      viper.GetString("MIRROR_BUCKET_NAME"),
			Region:          viper.GetString("MIRROR_REGION"),
			Folder:          viper.GetString("MIRROR_FOLDER"),
		},
		App: AppConfig{
			UploadDir:        viper.GetString("APP_UPLOAD_DIR"),
			OutputDir:        viper.GetString("APP_OUTPUT_DIR"),
			MaxUploadSize:    viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			AllowedFormats:   viper.GetStringSlice("APP_ALLOWED_FORMATS"),
			MaxSearchResults: viper.GetInt("APP_MAX_SEARCH_RESULTS"),
		},
	}

	if err := createDirs(cfg); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return cfg, nil
}

// Enabled reports whether the cloud mirror has everything it needs to run.
func (m *MirrorConfig) Enabled() bool {
	return m.BucketName != "" && m.AccessKeyID != "" && m.SecretAccessKey != ""
}

func createDirs(cfg *Config) error {
	dirs := []string{
		cfg.App.UploadDir,
		cfg.App.OutputDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
