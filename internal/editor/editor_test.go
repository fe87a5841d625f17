package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		want   []string
	}{
		{"editor wins", "nvim", "code", []string{"nvim"}},
		{"visual fallback", "", "code", []string{"code"}},
		{"arguments kept", "code --wait", "", []string{"code", "--wait"}},
		{"blank editor skipped", "   ", "emacs -nw", []string{"emacs", "-nw"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			got, err := command()
			if err != nil {
				t.Fatalf("command() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("command() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommand_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("PATH", t.TempDir())

	if _, err := command(); !errors.Is(err, ErrNoEditor) {
		t.Errorf("command() error = %v, want ErrNoEditor", err)
	}
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$1\" > \"$1.seen\"\necho edited\n"), 0o700); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	target := filepath.Join(dir, "config.yaml")
	var out bytes.Buffer
	if err := Open(context.Background(), target, Streams{Out: &out, Err: &out}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if out.String() != "edited\n" {
		t.Errorf("editor output = %q, want %q", out.String(), "edited\n")
	}
	seen, err := os.ReadFile(target + ".seen")
	if err != nil {
		t.Fatalf("editor did not run: %v", err)
	}
	if string(seen) != target+"\n" {
		t.Errorf("editor got argument %q, want %q", seen, target)
	}
}

func TestOpen_Failure(t *testing.T) {
	t.Setenv("EDITOR", filepath.Join(t.TempDir(), "missing-editor"))

	err := Open(context.Background(), "config.yaml", Streams{})
	if err == nil {
		t.Fatal("Open() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "running editor") {
		t.Errorf("error = %q, want it to mention running editor", err)
	}
}
