package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("JWT_SECRET_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreDriverPostgres)
	}
	if cfg.TokenTTL() != time.Hour {
		t.Fatalf("TokenTTL = %v, want 1h", cfg.TokenTTL())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.TokenTTL() != 15*time.Minute {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL())
	}
	if cfg.BcryptCost != 4 {
		t.Fatalf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.AutoMigrate {
		t.Fatal("expected AutoMigrate to be false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{StoreDriver: StoreDriverMemory, TokenTTLMinutes: 60}, false},
		{"unknown driver", Config{StoreDriver: "mysql", TokenTTLMinutes: 60}, true},
		{"postgres without url", Config{StoreDriver: StoreDriverPostgres, TokenTTLMinutes: 60}, true},
		{"redis without url", Config{StoreDriver: StoreDriverRedis, TokenTTLMinutes: 60}, true},
		{"zero ttl", Config{StoreDriver: StoreDriverMemory}, true},
		{"release without secret", Config{StoreDriver: StoreDriverMemory, TokenTTLMinutes: 60, GinMode: "release"}, true},
		{"release with secret", Config{StoreDriver: StoreDriverMemory, TokenTTLMinutes: 60, GinMode: "release", JWTSecretKey: "k"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
