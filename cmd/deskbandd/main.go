// deskbandd manages a band of colored text labels on a terminal surface,
// driven by controllers over a unix-socket command protocol.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/csm10495/deskband/pkg/config"
	"github.com/csm10495/deskband/pkg/daemon"
	"github.com/csm10495/deskband/pkg/dispatch"
	"github.com/csm10495/deskband/pkg/logging"
	"github.com/csm10495/deskband/pkg/paths"
	"github.com/csm10495/deskband/pkg/render"
	"github.com/csm10495/deskband/pkg/shell"
	"github.com/csm10495/deskband/pkg/store"
)

var (
	configPath = flag.String("config", "", "path to config.yaml (default: config dir)")
	socketPath = flag.String("socket", "", "override the control socket path")
)

var eventLog *log.Logger

func initEventLog() {
	eventLogPath := fmt.Sprintf("/tmp/deskband-%d-events.log", os.Getuid())
	f, err := os.OpenFile(eventLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		eventLog = log.New(os.Stderr, "[EVENT] ", log.LstdFlags)
		return
	}
	eventLog = log.New(f, "[event] ", log.LstdFlags|log.Lmicroseconds)
}

func logEvent(format string, args ...interface{}) {
	if eventLog != nil {
		eventLog.Printf(format, args...)
	}
}

func recoverAndLog(context string) {
	if r := recover(); r != nil {
		logEvent("panic in %s: %v\n%s", context, r, debug.Stack())
	}
}

func main() {
	flag.Parse()
	initEventLog()

	path := *configPath
	if path == "" {
		path = paths.ConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", path, err)
	}
	if *socketPath != "" {
		cfg.SocketPath = *socketPath
	}
	logging.SetPath(cfg.LogPath)

	labels := store.New()
	actions := store.NewActionRegistry()
	renderer := render.New(os.Stdout, cfg.Band.Width, cfg.Band.Height)
	server := daemon.NewServer(cfg.SocketPath, cfg.PidPath)

	messages := make(chan uint32, 16)

	dispatcher := &dispatch.Dispatcher{
		Store:       labels,
		Actions:     actions,
		MeasureText: render.MeasureText,
		SurfaceSize: renderer.SurfaceSize,
		Invalidate:  renderer.Invalidate,
		PostMessage: func(id uint32) {
			select {
			case messages <- id:
			default:
				logEvent("message queue full, dropping %d", id)
			}
		},
		SetLogging:  logging.SetEnabled,
		RequestStop: server.RequestStop,
	}
	server.OnRequest = func(request string) string {
		return dispatcher.Dispatch(request).Serialize()
	}

	if err := server.Start(); err != nil {
		log.Fatalf("failed to start control endpoint: %v", err)
	}
	logEvent("listening on %s", cfg.SocketPath)

	// Paint path: reads the label store independently of the protocol
	// worker, through the store's lock.
	go func() {
		defer recoverAndLog("paint loop")
		for range renderer.Repaint() {
			renderer.Paint(labels.PaintSnapshot(render.MeasureText))
		}
	}()

	// Message-dispatch path: every posted host message is looked up in
	// the registry; mapped ones run their action. Fire-and-forget.
	go func() {
		defer recoverAndLog("message pump")
		for id := range messages {
			if action, ok := actions.Lookup(id); ok {
				status := shell.Exec(cfg.Shell, action)
				logEvent("message %d ran action (exit %d)", id, status)
			}
		}
	}()

	go watchConfig(path, renderer)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		logEvent("signal %v, shutting down", sig)
		server.Stop()
		<-server.Done()
	case <-server.Done():
		// STOP command tore the endpoint down
	}
	logEvent("stopped")
}

// watchConfig reloads the band geometry and log path when the config file
// changes. A missing or unparseable file leaves the running config alone.
func watchConfig(path string, renderer *render.Renderer) {
	defer recoverAndLog("config watcher")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return
	}
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fresh, err := config.LoadConfig(path)
			if err != nil {
				logEvent("config reload failed: %v", err)
				continue
			}
			renderer.SetFallbackSize(fresh.Band.Width, fresh.Band.Height)
			logging.SetPath(fresh.LogPath)
			renderer.Invalidate()
			logEvent("config reloaded")
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
