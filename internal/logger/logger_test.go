package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathUsesWorkdirWhenDirEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}

	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGot, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve got dir symlink failed: %v", err)
	}
	if want := filepath.Join(realTmpDir, defaultLogDirName); realGot != want {
		t.Fatalf("log dir want %s got %s", want, realGot)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("log filename want %s got %s", defaultLogFilename, filepath.Base(got))
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("cart_item_added")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), `"message":"cart_item_added"`) {
		t.Fatalf("expected json line with message, got %s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		debug bool
		want  zap.AtomicLevel
	}{
		{name: "explicit warn", raw: "warn", debug: true, want: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{name: "debug mode default", raw: "", debug: true, want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{name: "release mode default", raw: "", debug: false, want: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{name: "unknown level falls back", raw: "loud", debug: false, want: zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveLevel(tc.raw, tc.debug)
			if got.Level() != tc.want.Level() {
				t.Fatalf("level want %s got %s", tc.want.Level(), got.Level())
			}
		})
	}
}
