package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atomicstack/kafka2i/internal/app"
	"github.com/atomicstack/kafka2i/internal/config"
	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/logging"
	"github.com/atomicstack/kafka2i/internal/logging/events"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd(os.Environ()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration problems to 2 and everything else to 1.
func exitCode(err error) int {
	if kerrors.Is(err, kerrors.KindConfig) {
		return 2
	}
	return 1
}

func newRootCmd(environ []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kafka2i",
		Short:         "kafka2i browses Kafka clusters and messages from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts := config.Bind(cmd.Flags(), environ)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return kerrors.ConfigInvalid(err.Error())
	})
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.Resolve()
		if err != nil {
			return err
		}
		cfg.Args = os.Args[1:]
		return run(cfg)
	}
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "version: %s\n", Version); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, "commit:  %s\n", GitCommit); err != nil {
				return err
			}
			_, err := fmt.Fprintf(out, "date:    %s\n", BuildDate)
			return err
		},
	}
}

func run(cfg config.Config) error {
	if err := logging.Configure(cfg.Logging.FilePath, cfg.Logging.Level); err != nil {
		return kerrors.ConfigInvalid(err.Error())
	}
	defer logging.Close()
	logging.SetTraceEnabled(cfg.Logging.Trace)

	sessionID := uuid.New()
	cfg.Kafka.ClientID = clientID(cfg.Kafka.ClientID, sessionID)
	events.App.Start(startupTracePayload(cfg, sessionID))

	if err := app.Run(cfg.App, cfg.Kafka); err != nil {
		logging.Error(err)
		return err
	}
	return nil
}

// clientID suffixes the configured prefix with the run's session id so
// broker-side logs can be matched to a log file.
func clientID(prefix string, sessionID uuid.UUID) string {
	short := sessionID.String()[:8]
	if prefix == "" {
		return "kafka2i-" + short
	}
	return prefix + "-" + short
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, sessionID uuid.UUID) map[string]any {
	flags := make(map[string]any, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	safe := cfg
	safe.Kafka.Password = ""
	payload := map[string]any{
		"session":    sessionID.String(),
		"version":    Version,
		"argv":       cfg.Args,
		"flags":      flags,
		"config":     safe,
		"configFile": cfg.ConfigFile,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes the standard descriptors for a terminal and its size.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.file.Fd())
		if term.IsTerminal(fd) {
			entry.IsTerminal = true
			width, height, err := term.GetSize(fd)
			switch {
			case err != nil:
				entry.Error = err.Error()
			default:
				entry.Width, entry.Height = width, height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
