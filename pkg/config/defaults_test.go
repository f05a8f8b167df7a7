package config

import (
	"testing"
	"time"

	"github.com/marmos91/wgps/internal/bytesize"
	"github.com/marmos91/wgps/pkg/controlplane/api"
)

func TestApplyLoggingDefaults_NormalizesCase(t *testing.T) {
	cfg := LoggingConfig{Level: "debug"}
	applyLoggingDefaults(&cfg)

	if cfg.Level != "DEBUG" {
		t.Errorf("expected level normalized to DEBUG, got %q", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("expected default format text, got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output stdout, got %q", cfg.Output)
	}
}

func TestApplyTelemetryDefaults(t *testing.T) {
	cfg := TelemetryConfig{}
	applyTelemetryDefaults(&cfg)

	if cfg.Enabled {
		t.Error("expected telemetry disabled by default")
	}
	if cfg.Endpoint != "localhost:4317" {
		t.Errorf("expected default OTLP endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %v", cfg.SampleRate)
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		t.Error("expected default profile types to be populated")
	}
}

func TestApplyMetricsDefaults_PortOnlySetWhenEnabled(t *testing.T) {
	disabled := MetricsConfig{}
	applyMetricsDefaults(&disabled)
	if disabled.Port != 0 {
		t.Errorf("expected port 0 when metrics disabled, got %d", disabled.Port)
	}

	enabled := MetricsConfig{Enabled: true}
	applyMetricsDefaults(&enabled)
	if enabled.Port != 9090 {
		t.Errorf("expected default metrics port 9090, got %d", enabled.Port)
	}
}

func TestApplyAPIDefaults(t *testing.T) {
	cfg := api.APIConfig{}
	applyAPIDefaults(&cfg)

	if cfg.Port != 8080 {
		t.Errorf("expected default API port 8080, got %d", cfg.Port)
	}
	if cfg.JWT.AccessTokenDuration != 15*time.Minute {
		t.Errorf("expected default access token duration 15m, got %v", cfg.JWT.AccessTokenDuration)
	}
	if cfg.JWT.RefreshTokenDuration != 7*24*time.Hour {
		t.Errorf("expected default refresh token duration 7d, got %v", cfg.JWT.RefreshTokenDuration)
	}
	if cfg.Operator.Username != "operator" {
		t.Errorf("expected default operator username, got %q", cfg.Operator.Username)
	}
}

func TestApplySessionDefaults(t *testing.T) {
	cfg := SessionConfig{}
	applySessionDefaults(&cfg)

	if cfg.MaxPayloadSize != 16*bytesize.MiB {
		t.Errorf("expected default max payload size 16MiB, got %d", cfg.MaxPayloadSize)
	}
	if cfg.InitialChannelCredit != 64 {
		t.Errorf("expected default initial channel credit 64, got %d", cfg.InitialChannelCredit)
	}
	if cfg.HandleStoreLimit != 1024 {
		t.Errorf("expected default handle store limit 1024, got %d", cfg.HandleStoreLimit)
	}
	if cfg.MaxFragments != 64 {
		t.Errorf("expected default max fragments 64, got %d", cfg.MaxFragments)
	}
	if cfg.Resume.TTL != time.Hour {
		t.Errorf("expected default resume ttl 1h, got %v", cfg.Resume.TTL)
	}
}

func TestApplyTransportDefaults(t *testing.T) {
	cfg := TransportConfig{}
	applyTransportDefaults(&cfg)

	if cfg.ListenAddr != ":4664" {
		t.Errorf("expected default listen addr :4664, got %q", cfg.ListenAddr)
	}
	if cfg.HandshakeTimeout != 10*time.Second {
		t.Errorf("expected default handshake timeout 10s, got %v", cfg.HandshakeTimeout)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("expected default idle timeout 5m, got %v", cfg.IdleTimeout)
	}
}

func TestApplyTransportDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := TransportConfig{ListenAddr: ":1234", HandshakeTimeout: 30 * time.Second}
	applyTransportDefaults(&cfg)

	if cfg.ListenAddr != ":1234" {
		t.Errorf("expected explicit listen addr preserved, got %q", cfg.ListenAddr)
	}
	if cfg.HandshakeTimeout != 30*time.Second {
		t.Errorf("expected explicit handshake timeout preserved, got %v", cfg.HandshakeTimeout)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("expected default idle timeout to still apply, got %v", cfg.IdleTimeout)
	}
}

func TestGetDefaultConfig_PassesValidation(t *testing.T) {
	cfg := GetDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("expected default config to pass validation, got %v", err)
	}
}
