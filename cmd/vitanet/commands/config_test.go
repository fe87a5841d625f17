package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vitanet/vitanet/internal/config"
	"github.com/vitanet/vitanet/internal/errors"
)

func TestConfigInit(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	origForce, origStore := initForce, initStorePath
	defer func() { initForce, initStorePath = origForce, origStore }()

	initStorePath = filepath.Join(t.TempDir(), "custom.db")

	var buf bytes.Buffer
	if err := runConfigInitWithWriter(&buf, path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("expected the path in output, got %q", buf.String())
	}

	config.Init()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.StorePath != initStorePath {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, initStorePath)
	}

	// second run refuses without --force
	err = runConfigInitWithWriter(&bytes.Buffer{}, path)
	if got := errors.ExitCode(err); got != errors.ExitUser {
		t.Errorf("ExitCode() = %d, want %d (err: %v)", got, errors.ExitUser, err)
	}

	initForce = true
	if err := runConfigInitWithWriter(&bytes.Buffer{}, path); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("version: 1\nstore_path: /srv/vitanet.db\nbundle_dir: /srv/bundles\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	origCfg, origErr := loadedConfig, configLoadErr
	defer func() { loadedConfig, configLoadErr = origCfg, origErr }()

	config.Init()
	loadedConfig, configLoadErr = config.Load("")
	if configLoadErr != nil {
		t.Fatalf("loading config: %v", configLoadErr)
	}

	var buf bytes.Buffer
	if err := runConfigShowWithWriter(&buf); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"# " + filepath.Join(dir, "config.yaml"), "store_path: /srv/vitanet.db", "bundle_dir: /srv/bundles"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	configLoadErr = errors.New("broken")
	if err := runConfigShowWithWriter(&bytes.Buffer{}); errors.ExitCode(err) != errors.ExitUser {
		t.Errorf("expected a user error for a broken config, got %v", err)
	}
}

func TestEditablePath(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	config.Init()

	origFile := configFile
	defer func() { configFile = origFile }()

	configFile = "/etc/vitanet/config.yaml"
	if got := editablePath(); got != configFile {
		t.Errorf("editablePath() = %q, want the --config value", got)
	}

	configFile = ""
	if got := editablePath(); !strings.HasSuffix(got, filepath.Join("vitanet", "config.yaml")) {
		t.Errorf("editablePath() = %q, want the default config file", got)
	}
}
