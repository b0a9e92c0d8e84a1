package config

import (
	"testing"
	"time"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "pharmtrack",
		Password: "devpassword",
		Database: "pharmtrack",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=pharmtrack password=devpassword dbname=pharmtrack sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %v, want %v", got, want)
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      DatabaseConfig
		environment string
		wantErr     bool
	}{
		{
			name:        "development allows localhost defaults",
			config:      DatabaseConfig{Host: "localhost"},
			environment: EnvDevelopment,
			wantErr:     false,
		},
		{
			name:        "production rejects localhost",
			config:      DatabaseConfig{Host: "localhost"},
			environment: EnvProduction,
			wantErr:     true,
		},
		{
			name:        "production accepts a real host",
			config:      DatabaseConfig{Host: "db.internal.example.com"},
			environment: EnvProduction,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tt.environment)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("inventory-service")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != EnvDevelopment {
		t.Errorf("Server.Environment = %q, want %q", cfg.Server.Environment, EnvDevelopment)
	}
	if cfg.Barcode.Timeout != 5*time.Second {
		t.Errorf("Barcode.Timeout = %v, want 5s", cfg.Barcode.Timeout)
	}
	if cfg.RabbitMQ.Enabled() {
		t.Error("RabbitMQ should be disabled by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PHARMTRACK_SERVER_PORT", "9090")
	t.Setenv("PHARMTRACK_AI_MODEL", "gemini-1.5-pro")

	cfg, err := Load("inventory-service")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.AI.Model != "gemini-1.5-pro" {
		t.Errorf("AI.Model = %q, want gemini-1.5-pro", cfg.AI.Model)
	}
}

func TestLoadWithValidation_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("PHARMTRACK_SERVER_ENVIRONMENT", EnvProduction)
	t.Setenv("PHARMTRACK_DATABASE_HOST", "db.internal.example.com")
	t.Setenv("PHARMTRACK_AI_API_KEY", "")

	if _, err := LoadWithValidation("inventory-service"); err == nil {
		t.Error("expected error when AI API key is missing in production")
	}
}
