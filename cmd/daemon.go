package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/daemon"
	"github.com/foogie-app/foogie/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve the ledger over HTTP, SSE and WebSocket and accept calorie syncs",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is running and today's budget it serves",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "Listen address (default [daemon].addr, "+config.DefaultDaemonAddr+")")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Ledger poll interval (default [daemon].poll_interval_sec)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(store.DataDir(), "foogied.pid"), "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", filepath.Join(store.DataDir(), "foogied.log"), "Log file used with --detach")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Events kept for /v1/events")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Start the daemon in the background and return")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: set on the detached process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// pidFile records the running daemon: its pid in the file itself and its
// listen address in a JSON sidecar, so status finds a daemon started with a
// non-default --addr.
type pidFile struct {
	path string
}

type pidState struct {
	PID  int    `json:"pid"`
	Addr string `json:"addr"`
}

func (p pidFile) sidecar() string { return p.path + ".json" }

func (p pidFile) write(st pidState) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o750); err != nil {
		return fmt.Errorf("creating pid directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(p.sidecar(), data, 0o600)
}

// read returns the recorded daemon. The address is empty when the sidecar
// is missing or unreadable.
func (p pidFile) read() (pidState, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(p.path)
	if err != nil {
		return pidState{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return pidState{}, fmt.Errorf("invalid pid in %s", p.path)
	}

	st := pidState{PID: pid}
	//nolint:gosec // sidecar sits next to the pid file
	if raw, err := os.ReadFile(p.sidecar()); err == nil {
		var side pidState
		if json.Unmarshal(raw, &side) == nil && side.PID == pid {
			st.Addr = side.Addr
		}
	}
	return st, nil
}

func (p pidFile) remove() {
	_ = os.Remove(p.path)
	_ = os.Remove(p.sidecar())
}

// claim fails when a live daemon holds the pid file and clears a stale one.
func (p pidFile) claim() error {
	st, err := p.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case alive(st.PID):
		return fmt.Errorf("daemon already running (pid %d)", st.PID)
	}
	p.remove()
	return nil
}

// alive reports whether pid names a running process. EPERM still means it
// exists.
func alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("--detach and --child are exclusive")
	case flagDaemonDetach:
		return detachDaemon()
	default:
		return serveDaemon()
	}
}

// detachDaemon re-runs this command as a background child writing to the
// log file.
func detachDaemon() error {
	pf := pidFile{path: flagDaemonPIDFile}
	if err := pf.claim(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := make([]string, 0, len(os.Args))
	for _, a := range os.Args[1:] {
		if a != "--detach" && !strings.HasPrefix(a, "--detach=") {
			args = append(args, a)
		}
	}
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-invokes the current binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}

	fmt.Printf("  Daemon started in the background (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Status: http://%s/v1/status\n", daemonAddr())
	fmt.Printf("  Log:    %s\n", flagDaemonLogFile)
	return nil
}

// serveDaemon runs the daemon in this process until SIGINT or SIGTERM.
func serveDaemon() error {
	pf := pidFile{path: flagDaemonPIDFile}
	if err := pf.claim(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := flagDaemonAddr
	if addr == "" {
		addr = e.cfg.Daemon.Addr
	}
	interval := flagDaemonInterval
	if interval <= 0 {
		interval = e.cfg.PollInterval()
	}

	if err := pf.write(pidState{PID: os.Getpid(), Addr: addr}); err != nil {
		return err
	}
	defer pf.remove()

	svc := daemon.New(daemon.Config{
		Ledger:       e.ledger,
		Interval:     interval,
		Addr:         addr,
		EventsBuffer: flagDaemonEventsBuffer,
		Logger:       log.New(os.Stderr, "foogied: ", log.LstdFlags),
	})

	fmt.Printf("  foogie daemon on http://%s (ledger %s, polled every %s)\n", addr, e.db.Path(), interval)
	fmt.Printf("  Calorie sync endpoint: http://%s/api/calorie-tracker\n", addr)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// daemonAddr resolves the listen address: flag, then config.
func daemonAddr() string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	cfg, _ := config.Load()
	return cfg.Daemon.Addr
}

func fetchDaemonStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed status: %w", err)
	}
	return st, nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	rec, err := pidFile{path: flagDaemonPIDFile}.read()
	if err != nil {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if !alive(rec.PID) {
		fmt.Printf("  Daemon: not running (stale pid %d in %s)\n", rec.PID, flagDaemonPIDFile)
		return nil
	}

	addr := rec.Addr
	if addr == "" {
		addr = daemonAddr()
	}
	fmt.Printf("  Daemon: running (pid %d) on http://%s\n", rec.PID, addr)

	st, err := fetchDaemonStatus(context.Background(), addr)
	if err != nil {
		fmt.Printf("  API: unreachable (%v)\n", err)
		return nil
	}

	last := "pending"
	if !st.LastPollAt.IsZero() {
		last = cli.FormatTime(st.LastPollAt.Local())
	}
	fmt.Printf("  Up since %s, %d polls, last at %s\n",
		st.StartedAt.Local().Format(time.DateTime), st.PollCount, last)
	fmt.Printf("  %s events buffered, %d SSE and %d WebSocket clients\n",
		cli.FormatNumber(int64(st.EventCount)), st.SubscriberCount, st.SocketCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	if st.Budget != nil {
		fmt.Println()
		fmt.Println(cli.RenderBudgetBanner(*st.Budget))
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile{path: flagDaemonPIDFile}
	rec, err := pf.read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(8 * time.Second)
	for {
		select {
		case <-tick.C:
			if !alive(rec.PID) {
				pf.remove()
				fmt.Printf("  Stopped daemon (pid %d)\n", rec.PID)
				return nil
			}
		case <-timeout:
			return fmt.Errorf("daemon (pid %d) did not exit within 8s", rec.PID)
		}
	}
}
