// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/relabs-tech/minevisit/internal/config"
)

func TestCommandLoadsConfigFlag(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	path := filepath.Join(t.TempDir(), "site.txt")
	if err := os.WriteFile(path, []byte("WEB_SERVER_PORT=9191\nCAMERA_SOURCE=mock\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var got *config.Config
	cmd := NewCommand("web", "serve the visit form", func(ctx context.Context, cfg *config.Config) error {
		if ctx == nil {
			t.Error("Expected command context")
		}
		got = cfg
		return nil
	})
	cmd.SetArgs([]string{"--config", path})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected run to receive a config")
	}
	if got.WebServerPort != 9191 || got.CameraSource != config.CameraSourceMock {
		t.Errorf("Unexpected config %+v", got)
	}
	if config.Get() != got {
		t.Error("Expected the loaded config to be the global one")
	}
}
