package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, "memory")
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "8080")
	}
	if cfg.PopularDefaultCount != 10 {
		t.Errorf("PopularDefaultCount = %d, want 10", cfg.PopularDefaultCount)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}

func TestLoadConfig_PostgresBackend(t *testing.T) {
	os.Clearenv()
	os.Setenv("STORAGE_BACKEND", "postgres")
	os.Setenv("DB_PASSWORD", "test_password")
	defer os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StorageBackend != "postgres" {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, "postgres")
	}
	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Unknown backend",
			envVars: map[string]string{
				"STORAGE_BACKEND": "cassandra",
			},
		},
		{
			name: "Postgres without password",
			envVars: map[string]string{
				"STORAGE_BACKEND": "postgres",
			},
		},
		{
			name: "Postgres without SSL in production",
			envVars: map[string]string{
				"STORAGE_BACKEND": "postgres",
				"DB_PASSWORD":     "password",
				"APP_ENV":         "production",
				"DB_SSLMODE":      "disable",
			},
		},
		{
			name: "Non-positive popular default",
			envVars: map[string]string{
				"POPULAR_DEFAULT_COUNT": "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := LoadConfig()
			if err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.local",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "filmoteka",
		DBSSLMode:  "require",
	}

	want := "host=db.local port=5433 user=app password=secret dbname=filmoteka sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
