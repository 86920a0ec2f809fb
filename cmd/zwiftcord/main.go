// Package main implements the Zwiftcord daemon, which watches the Zwift
// activity log and publishes the player's current activity as Discord Rich
// Presence.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	rootpkg "tools.zach/dev/zwiftcord"
	"tools.zach/dev/zwiftcord/internal/config"
	"tools.zach/dev/zwiftcord/internal/discord"
	"tools.zach/dev/zwiftcord/internal/gameproc"
	"tools.zach/dev/zwiftcord/internal/logger"
	"tools.zach/dev/zwiftcord/internal/paths"
	"tools.zach/dev/zwiftcord/internal/presence"
	"tools.zach/dev/zwiftcord/internal/update"
	"tools.zach/dev/zwiftcord/internal/zwift"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags:
//   - goreleaser: -X main.version={{.Version}}  -> "0.1.0"
//   - make build: -X main.version=$(VERSION)    -> "0.0.0-dev+05ffee5"
//
// When ldflags are not set (bare go build), resolveVersion reads the VCS info
// that Go embeds automatically, so dev builds get a useful version string
// without needing git at runtime.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags at build time it is returned as-is; otherwise VCS revision and dirty
// state embedded by the Go toolchain are used to construct a "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// PID Management
// ///////////////////////////////////////////////

// pidToken generates a random 16-character hex token used to prove ownership
// of the PID file, so [removePID] only deletes the file if this instance wrote it.
func pidToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// writePID creates or opens the PID file at [DataPaths.PID], acquires an
// advisory file lock, and writes "PID:TOKEN" content. The returned file handle
// must be kept open for the lifetime of the daemon to hold the lock; pass it to
// [removePID] on shutdown.
func writePID(paths DataPaths, token string) (*os.File, error) {
	f, err := os.OpenFile(paths.PID(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open PID file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock PID file: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		_ = unlockFile(f)
		f.Close()
		return nil, fmt.Errorf("truncate PID file: %w", err)
	}
	content := fmt.Sprintf("%d:%s", os.Getpid(), token)
	if _, err := f.WriteString(content); err != nil {
		_ = unlockFile(f)
		f.Close()
		return nil, fmt.Errorf("write PID file: %w", err)
	}
	return f, nil
}

// removePID releases the advisory lock, closes the file handle, and removes the
// PID file only if the stored token matches, preventing accidental removal of a
// file owned by a different daemon instance.
func removePID(paths DataPaths, token string, f *os.File) {
	if f != nil {
		_ = unlockFile(f)
		f.Close()
	}
	data, err := os.ReadFile(paths.PID())
	if err != nil {
		return
	}
	parts := strings.SplitN(string(data), ":", 2)
	if len(parts) == 2 && parts[1] == token {
		os.Remove(paths.PID())
	}
}

// checkStalePID checks whether another daemon instance is running. It attempts
// to acquire the advisory lock on the PID file; if the lock fails, another
// instance holds it. If the lock succeeds, any previous instance is dead and
// the stale file is cleaned up.
func checkStalePID(paths DataPaths) (alive bool, pid int) {
	f, err := os.OpenFile(paths.PID(), os.O_RDWR, 0o600)
	if err != nil {
		return false, 0
	}

	if lockErr := lockFile(f); lockErr != nil {
		data, _ := os.ReadFile(paths.PID())
		f.Close()
		parts := strings.SplitN(string(data), ":", 2)
		if len(parts) >= 1 {
			if p, convErr := strconv.Atoi(parts[0]); convErr == nil {
				return true, p
			}
		}
		return true, 0
	}

	// Lock acquired -- previous instance is dead. Clean up stale file.
	_ = unlockFile(f)
	f.Close()
	os.Remove(paths.PID())
	return false, 0
}

// ///////////////////////////////////////////////
// Default Data Directory
// ///////////////////////////////////////////////

// defaultDataDir returns the platform default directory for Zwiftcord data,
// typically ~/.zwiftcord. Falls back to ./.zwiftcord if the home directory
// cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", paths.DataDirRel)
	}
	return filepath.Join(home, paths.DataDirRel)
}

// resolveLogPath returns the game log location: the config override when set,
// otherwise the platform default under Documents.
func resolveLogPath(cfg *config.Config) string {
	if cfg.Game.LogPath != "" {
		return cfg.Game.LogPath
	}
	return paths.GameLog()
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	dataDir := flag.String("data-dir", defaultDataDir(), "Data directory for config and logs")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(resolveVersion())
		return
	}

	dataPaths := DataPaths{Root: *dataDir}

	if err := os.MkdirAll(dataPaths.Root, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: create data dir: %v\n", err)
		os.Exit(1)
	}

	if alive, pid := checkStalePID(dataPaths); alive {
		fmt.Fprintf(os.Stderr, "daemon already running (pid %d)\n", pid)
		os.Exit(1)
	}

	if _, err := os.Stat(dataPaths.Config()); os.IsNotExist(err) {
		if writeErr := os.WriteFile(dataPaths.Config(), rootpkg.DefaultConfigTOML, 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write default config: %v\n", writeErr)
		}
	}

	cfg, err := config.Load(dataPaths.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := logger.ParseLevel(cfg.Log.Level)
	log, logCloser, err := logger.NewLogger(dataPaths.Log(), logLevel, cfg.Log.MaxSizeMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	ver := resolveVersion()
	slog.Info("zwiftcord starting", "version", ver, "data_dir", dataPaths.Root)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("update check panic", "error", r)
			}
		}()
		update.Check(ver)
	}()

	token := pidToken()
	pidFile, err := writePID(dataPaths, token)
	if err != nil {
		slog.Error("failed to write PID file", "error", err)
		os.Exit(1)
	}
	defer removePID(dataPaths, token, pidFile)

	logPath := resolveLogPath(cfg)
	if logPath == "" {
		slog.Error("cannot determine game log path; set game.log_path in config")
		os.Exit(1)
	}
	slog.Info("watching game log", "path", logPath, "process", cfg.Game.ProcessName)

	reconnectInterval := time.Duration(cfg.Behavior.ReconnectIntervalSeconds) * time.Second
	client := discord.NewClient(cfg.Discord.AppID, reconnectInterval)
	client.Start()
	defer client.Close()

	watcher, err := zwift.NewWatcher(logPath)
	if err != nil {
		slog.Error("failed to create log watcher", "error", err)
		os.Exit(1)
	}
	defer watcher.Close()
	if watcher.Polling() {
		slog.Info("using polling mode for log watching")
	}

	run(client, watcher, cfg, logPath)
}

// ///////////////////////////////////////////////
// Event Loop
// ///////////////////////////////////////////////

// loopState holds mutable state carried across iterations of the main event
// loop. It is owned by the single loop goroutine; no locking is needed.
type loopState struct {
	// prev is the activity state published on the previous tick; nil when
	// no activity is active.
	prev *zwift.State

	// wasRunning is the game liveness result from the previous tick, used
	// to detect the stop transition (clear presence) and the start
	// transition (rewind the log cursor for the fresh session).
	wasRunning bool

	// activityStart is when the current logical activity began. Held
	// constant across updates of the same activity so the Discord elapsed
	// timer does not restart on every state change; zeroed when the
	// activity ends.
	activityStart time.Time
}

// run is the main event loop. Each tick — from the interval ticker or an
// early wake-up from the log watcher — performs, in order: liveness check,
// log poll, state fold, diff, and at most one presence dispatch. The loop is
// a single goroutine, so ticks never overlap and the single-snapshot-in-flight
// invariant holds; all socket I/O stays inside the [discord.Client] owner.
func run(client *discord.Client, watcher *zwift.Watcher, cfg *config.Config, logPath string) {
	pollInterval := time.Duration(cfg.Behavior.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := signalChannel()

	poller := zwift.NewPoller(logPath)
	assets := presence.AssetConfig{
		LargeImage: cfg.Display.Assets.LargeImage,
		LargeText:  cfg.Display.Assets.LargeText,
		SmallImage: cfg.Display.Assets.SmallImage,
		SmallText:  cfg.Display.Assets.SmallText,
	}

	ls := &loopState{}
	tick(client, poller, cfg.Game.ProcessName, assets, ls)

	for {
		select {
		case <-sigCh:
			slog.Info("received shutdown signal")
			return
		case <-watcher.Events():
			tick(client, poller, cfg.Game.ProcessName, assets, ls)
		case <-ticker.C:
			tick(client, poller, cfg.Game.ProcessName, assets, ls)
		}
	}
}

// tick performs one orchestrator pass: liveness, poll, fold, diff, dispatch.
func tick(client *discord.Client, poller *zwift.Poller, procName string, assets presence.AssetConfig, ls *loopState) {
	running := gameproc.Running(procName)

	if !running {
		if ls.wasRunning {
			slog.Info("game client stopped, clearing presence")
			client.SetActivity(nil)
			ls.prev = nil
			ls.activityStart = time.Time{}
		}
		ls.wasRunning = false
		return
	}

	if !ls.wasRunning {
		// Fresh session: Zwift truncates the log on launch, so the
		// cursor restarts from the top. This is the only place the
		// cursor ever rewinds.
		slog.Info("game client started")
		poller.Reset()
		ls.wasRunning = true
	}

	lines := poller.Poll()
	if len(lines) > 0 {
		logger.Trace(slog.Default(), "log lines polled", "count", len(lines), "offset", poller.Offset())
	}

	next := zwift.Transition(lines, ls.prev)
	if zwift.Equal(next, ls.prev) {
		ls.prev = next
		return
	}

	if next == nil {
		slog.Debug("activity ended, clearing presence")
		client.SetActivity(nil)
		ls.activityStart = time.Time{}
	} else {
		if ls.prev == nil {
			ls.activityStart = time.Now()
		}
		act := presence.Build(next, assets, ls.activityStart)
		client.SetActivity(act)
		slog.Debug("presence updated",
			"kind", next.Kind.String(),
			"details", act.Details,
			"state", act.State,
		)
	}
	ls.prev = next
}
