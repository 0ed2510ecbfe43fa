package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/clipboard"
	"github.com/atomicstack/kafka2i/internal/format/message"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/session"
	"github.com/atomicstack/kafka2i/internal/state"
	"github.com/atomicstack/kafka2i/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Width           int
	Height          int
	ShowFooter      bool
	RefreshInterval time.Duration
	WarnAfter       int
	Clipboard       bool
	Highlight       bool
}

// Run connects to the cluster and executes the Bubble Tea program until the
// user quits.
func Run(cfg Config, kafkaCfg kafka.Config) error {
	client, err := kafka.NewClient(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka client: %w", err)
	}
	rt := newRuntime(client, cfg, kafkaCfg.Timeout)
	program := tea.NewProgram(rt.model, tea.WithAltScreen())
	_, err = program.Run()
	rt.close()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}

// runtime owns every long-lived collaborator of a running program.
type runtime struct {
	cluster kafka.Cluster
	watcher *backend.Watcher
	session *session.Controller
	model   *ui.Model
}

func newRuntime(cluster kafka.Cluster, cfg Config, timeout time.Duration) *runtime {
	store := state.NewStore(cfg.WarnAfter)
	var copier clipboard.Copier = clipboard.Nop
	if cfg.Clipboard {
		copier = clipboard.NewSystem()
	}
	ctrl := session.New(session.Options{
		Cluster:   cluster,
		Store:     store,
		Clipboard: copier,
		Format:    message.Text,
		Timeout:   timeout,
	})
	watcher := backend.NewWatcher(cluster, cfg.RefreshInterval, timeout)
	model := ui.NewModel(ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Highlight:  cfg.Highlight,
		Store:      store,
		Watcher:    watcher,
		Session:    ctrl,
	})
	return &runtime{cluster: cluster, watcher: watcher, session: ctrl, model: model}
}

// close releases collaborators in dependency order: nothing may touch the
// cluster once it is closed.
func (r *runtime) close() {
	r.watcher.Stop()
	r.watcher.Wait()
	r.session.Close()
	r.cluster.Close()
}
