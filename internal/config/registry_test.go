package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "tr064-debug") {
		t.Errorf("GetConfigDir() = %v, should contain 'tr064-debug'", configDir)
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "tr064-debug"); got != want {
		t.Errorf("GetConfigDir() = %s, want %s", got, want)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	prefs := reg.Preferences
	if prefs == nil || prefs.Defaults == nil {
		t.Fatal("NewRegistry().Preferences should carry defaults")
	}
	if prefs.Defaults.Port != 49000 {
		t.Errorf("Defaults.Port = %d, want 49000", prefs.Defaults.Port)
	}
	if prefs.Defaults.TimeoutMs != 5000 {
		t.Errorf("Defaults.TimeoutMs = %d, want 5000", prefs.Defaults.TimeoutMs)
	}
	if !prefs.Defaults.UseSSL {
		t.Error("Defaults.UseSSL should be true")
	}
	if prefs.UIMode != UIModeAuto {
		t.Errorf("UIMode = %q, want auto", prefs.UIMode)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Preferences.Defaults.Username = "admin"
	reg.Preferences.Defaults.UseSSL = false
	reg.Preferences.UIMode = UIModePlain
	reg.RecordLastDevice("FRITZ!Box 7590")

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("LoadRegistryFile() error = %v", err)
	}

	if loaded.Preferences.Defaults.Username != "admin" {
		t.Errorf("Username = %q, want admin", loaded.Preferences.Defaults.Username)
	}
	if loaded.Preferences.Defaults.UseSSL {
		t.Error("UseSSL = true, want false as saved")
	}
	if loaded.Preferences.UIMode != UIModePlain {
		t.Errorf("UIMode = %q, want plain", loaded.Preferences.UIMode)
	}
	if loaded.LastDeviceName() != "FRITZ!Box 7590" {
		t.Errorf("LastDeviceName() = %q", loaded.LastDeviceName())
	}
}

func TestLoadRegistryFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, reg *Registry)
	}{
		{
			name:    "partial preferences get defaults",
			content: "version: 1\npreferences:\n  ui_mode: bogus\n",
			check: func(t *testing.T, reg *Registry) {
				if reg.Preferences.UIMode != UIModeAuto {
					t.Errorf("UIMode = %q, want auto", reg.Preferences.UIMode)
				}
				if reg.Preferences.Defaults.Port != 49000 {
					t.Errorf("Port = %d, want 49000", reg.Preferences.Defaults.Port)
				}
				if reg.Preferences.DiscoverTimeout != 5 {
					t.Errorf("DiscoverTimeout = %d, want 5", reg.Preferences.DiscoverTimeout)
				}
			},
		},
		{
			name:    "no preferences section",
			content: "version: 1\n",
			check: func(t *testing.T, reg *Registry) {
				if reg.Preferences == nil {
					t.Error("Preferences should be filled in")
				}
			},
		},
		{name: "wrong version", content: "version: 2\n", wantErr: true},
		{name: "invalid yaml", content: "version: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			reg, err := LoadRegistryFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadRegistryFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, reg)
			}
		})
	}
}

func TestLoadRegistryFile_Missing(t *testing.T) {
	reg, err := LoadRegistryFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFile() error = %v", err)
	}
	if reg.Version != 1 {
		t.Errorf("Version = %d, want 1", reg.Version)
	}
}

func TestStorePath(t *testing.T) {
	exeDir := t.TempDir()
	orig := executable
	executable = func() (string, error) { return filepath.Join(exeDir, "tr064-debug"), nil }
	t.Cleanup(func() { executable = orig })

	withPref := NewRegistry()
	withPref.Preferences.StorePath = "/srv/pref.yaml"

	tests := []struct {
		name string
		reg  *Registry
		flag string
		env  string
		want string
	}{
		{"flag wins", withPref, "/tmp/flag.yaml", "/tmp/env.yaml", "/tmp/flag.yaml"},
		{"env before preference", withPref, "", "/tmp/env.yaml", "/tmp/env.yaml"},
		{"preference", withPref, "", "", "/srv/pref.yaml"},
		{"next to executable", NewRegistry(), "", "", filepath.Join(exeDir, StoreFile)},
		{"nil registry", nil, "", "", filepath.Join(exeDir, StoreFile)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(StoreEnvVar, tt.env)

			got, err := tt.reg.StorePath(tt.flag)
			if err != nil {
				t.Fatalf("StorePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StorePath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDiscoverDuration(t *testing.T) {
	var nilPrefs *Preferences
	if nilPrefs.DiscoverDuration().Seconds() != 5 {
		t.Errorf("nil DiscoverDuration() = %v, want 5s", nilPrefs.DiscoverDuration())
	}

	prefs := &Preferences{DiscoverTimeout: 12}
	if prefs.DiscoverDuration().Seconds() != 12 {
		t.Errorf("DiscoverDuration() = %v, want 12s", prefs.DiscoverDuration())
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}
