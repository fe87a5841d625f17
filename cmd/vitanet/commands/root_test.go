package commands

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/config"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	// Save/Restore original state
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(context.Background(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"VITANET_DEBUG=1", "1", slog.LevelDebug},
		{"VITANET_DEBUG=true", "true", slog.LevelDebug},
		{"VITANET_DEBUG=2", "2", logging.LevelTrace},
		{"VITANET_DEBUG=0", "0", slog.LevelWarn},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv(debugEnv, tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}
			if !slog.Default().Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	origQuiet, origVerbosity := quiet, verbosity
	defer func() { quiet, verbosity = origQuiet, origVerbosity }()

	quiet = true
	verbosity = 1

	err := setupLogging(rootCmd)
	if got := errors.ExitCode(err); got != errors.ExitUser {
		t.Errorf("ExitCode() = %d, want %d (err: %v)", got, errors.ExitUser, err)
	}
}

func TestSetupLogging_LogFile(t *testing.T) {
	origFile, origVerbosity := logFile, verbosity
	defer func() { logFile, verbosity = origFile, origVerbosity }()

	logFile = filepath.Join(t.TempDir(), "vitanet.log")
	verbosity = 1
	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if _, ok := slog.Default().Handler().(*logging.MultiHandler); !ok {
		t.Errorf("expected a MultiHandler, got %T", slog.Default().Handler())
	}
}

func TestEffectiveLogFormat(t *testing.T) {
	origFormat, origCfg := logFormat, loadedConfig
	defer func() { logFormat, loadedConfig = origFormat, origCfg }()

	logFormat, loadedConfig = "", nil
	if got := effectiveLogFormat(); got != logging.FormatText {
		t.Errorf("default = %q, want text", got)
	}

	loadedConfig = &config.Config{LogFormat: "json"}
	if got := effectiveLogFormat(); got != logging.FormatJSON {
		t.Errorf("from config = %q, want json", got)
	}

	logFormat = "text"
	if got := effectiveLogFormat(); got != logging.FormatText {
		t.Errorf("flag over config = %q, want text", got)
	}
}

func TestResolveSettings(t *testing.T) {
	origDB, origCfg, origErr := dbPath, loadedConfig, configLoadErr
	origSettings := flags.GetSettings()
	defer func() {
		dbPath, loadedConfig, configLoadErr = origDB, origCfg, origErr
		flags.SetSettings(origSettings)
	}()

	loadedConfig = &config.Config{
		Version:   config.CurrentVersion,
		StorePath: "/data/vitanet.db",
		BundleDir: "/data/bundles",
	}
	configLoadErr = nil

	t.Run("config values", func(t *testing.T) {
		dbPath = ""
		if err := resolveSettings(statusCmd); err != nil {
			t.Fatalf("resolveSettings failed: %v", err)
		}
		s := flags.GetSettings()
		if s.StorePath != "/data/vitanet.db" || s.BundleDir != "/data/bundles" {
			t.Errorf("unexpected settings %+v", s)
		}
		if s.ProducerVersion != rootCmd.Version {
			t.Errorf("ProducerVersion = %q, want build version %q", s.ProducerVersion, rootCmd.Version)
		}
	})

	t.Run("db-path flag wins", func(t *testing.T) {
		dbPath = "/tmp/other.db"
		if err := resolveSettings(statusCmd); err != nil {
			t.Fatalf("resolveSettings failed: %v", err)
		}
		if got := flags.GetSettings().StorePath; got != "/tmp/other.db" {
			t.Errorf("StorePath = %q, want /tmp/other.db", got)
		}
	})

	t.Run("config error", func(t *testing.T) {
		configLoadErr = errors.New("bad yaml")
		err := resolveSettings(statusCmd)
		var exitErr *errors.ExitError
		if !errors.As(err, &exitErr) || exitErr.Suggestion == "" {
			t.Errorf("expected a config ExitError, got %v", err)
		}
		if err := resolveSettings(versionCmd); err != nil {
			t.Errorf("version must ignore config errors, got %v", err)
		}
	})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.NewUserError(errors.New("no such bundle"), "Run: vitanet bundle list"))

	out := buf.String()
	if !strings.Contains(out, "Error: no such bundle") {
		t.Errorf("missing message:\n%s", out)
	}
	if !strings.Contains(out, "Run: vitanet bundle list") {
		t.Errorf("missing suggestion:\n%s", out)
	}
}
