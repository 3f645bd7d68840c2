package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPIDFileRoundTrip(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "run", "foogied.pid")}
	if err := pf.write(pidState{PID: 4242, Addr: "127.0.0.1:9999"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := pf.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.PID != 4242 || got.Addr != "127.0.0.1:9999" {
		t.Fatalf("read = %+v", got)
	}

	pf.remove()
	if _, err := os.Stat(pf.path); !os.IsNotExist(err) {
		t.Fatalf("pid file still present: %v", err)
	}
	if _, err := os.Stat(pf.sidecar()); !os.IsNotExist(err) {
		t.Fatalf("sidecar still present: %v", err)
	}
}

func TestPIDFileIgnoresMismatchedSidecar(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "foogied.pid")}
	if err := os.WriteFile(pf.path, []byte("77\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pf.sidecar(), []byte(`{"pid":12,"addr":"old:1"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := pf.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.PID != 77 || got.Addr != "" {
		t.Fatalf("read = %+v, want pid 77 and no addr", got)
	}
}

func TestPIDFileRejectsGarbage(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "foogied.pid")}
	if err := os.WriteFile(pf.path, []byte("not-a-pid"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := pf.read()
	if err == nil || !strings.Contains(err.Error(), "invalid pid") {
		t.Fatalf("read error = %v", err)
	}
}

func TestClaimClearsStalePIDFile(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "foogied.pid")}
	// Max pid on Linux is well below this, so the process cannot exist.
	if err := pf.write(pidState{PID: 1 << 30, Addr: "127.0.0.1:1"}); err != nil {
		t.Fatal(err)
	}
	if err := pf.claim(); err != nil {
		t.Fatalf("claim stale: %v", err)
	}
	if _, err := os.Stat(pf.path); !os.IsNotExist(err) {
		t.Fatalf("stale pid file not cleared: %v", err)
	}
}

func TestClaimRefusesLiveDaemon(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "foogied.pid")}
	if err := pf.write(pidState{PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}
	err := pf.claim()
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("claim = %v, want already running", err)
	}
}

func TestClaimWithoutPIDFile(t *testing.T) {
	pf := pidFile{path: filepath.Join(t.TempDir(), "missing.pid")}
	if err := pf.claim(); err != nil {
		t.Fatalf("claim: %v", err)
	}
}
