package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected no error for a missing config file, got %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected default log level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Transport.ListenAddr != ":4664" {
		t.Errorf("expected default listen addr :4664, got %q", cfg.Transport.ListenAddr)
	}
}

func TestLoad_AppliesDefaultsOverPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
logging:
  level: "DEBUG"
  format: "json"
  output: "stdout"

transport:
  listen_addr: ":5000"

session:
  resume:
    enabled: false
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected logging.level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Transport.ListenAddr != ":5000" {
		t.Errorf("expected transport.listen_addr :5000, got %q", cfg.Transport.ListenAddr)
	}
	if cfg.Transport.HandshakeTimeout != 10*time.Second {
		t.Errorf("expected default handshake_timeout 10s, got %v", cfg.Transport.HandshakeTimeout)
	}
	if cfg.Session.InitialChannelCredit != 64 {
		t.Errorf("expected default initial_channel_credit 64, got %d", cfg.Session.InitialChannelCredit)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_ByteSizeAndDurationDecodeHooks(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
logging:
  level: "INFO"
  format: "text"
  output: "stdout"

transport:
  listen_addr: ":4664"

session:
  max_payload_size: "32MiB"
  resume:
    enabled: true
    path: "/tmp/resume"
    ttl: "2h"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Session.MaxPayloadSize != 32*1024*1024 {
		t.Errorf("expected max_payload_size 32MiB, got %d", cfg.Session.MaxPayloadSize)
	}
	if cfg.Session.Resume.TTL != 2*time.Hour {
		t.Errorf("expected resume.ttl 2h, got %v", cfg.Session.Resume.TTL)
	}
}

func TestLoad_InvalidLogLevelFailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
logging:
  level: "VERBOSE"
  format: "text"
  output: "stdout"

transport:
  listen_addr: ":4664"
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error for an invalid logging.level")
	}
}

func TestSaveConfig_RoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	original := GetDefaultConfig()
	original.Logging.Level = "DEBUG"
	original.Transport.ListenAddr = ":9999"

	if err := SaveConfig(original, configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Logging.Level != "DEBUG" {
		t.Errorf("expected logging.level DEBUG after round-trip, got %q", loaded.Logging.Level)
	}
	if loaded.Transport.ListenAddr != ":9999" {
		t.Errorf("expected transport.listen_addr :9999 after round-trip, got %q", loaded.Transport.ListenAddr)
	}
}

func TestDefaultConfigExists(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	if DefaultConfigExists() {
		t.Fatal("expected no default config to exist in a fresh temp dir")
	}

	if err := SaveConfig(GetDefaultConfig(), GetDefaultConfigPath()); err != nil {
		t.Fatalf("failed to save default config: %v", err)
	}

	if !DefaultConfigExists() {
		t.Fatal("expected default config to exist after SaveConfig")
	}
}

func TestMustLoad_MissingConfigFileReportsHelp(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := MustLoad(filepath.Join(tmpDir, "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config path")
	}
}

func TestEnvironmentVariableOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
logging:
  level: "INFO"
  format: "text"
  output: "stdout"

transport:
  listen_addr: ":4664"
`)

	t.Setenv("WGPS_LOGGING_LEVEL", "ERROR")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("expected WGPS_LOGGING_LEVEL env var to override file, got %q", cfg.Logging.Level)
	}
}
