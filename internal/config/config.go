package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"github.com/atomicstack/kafka2i/internal/app"
	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging"
)

// Config captures runtime configuration for the application.
type Config struct {
	Kafka      kafka.Config
	App        app.Config
	Logging    Logging
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Level    slog.Level
	Trace    bool
}

const (
	envPrefix           = "KAFKA2I_"
	envBootstrapServers = envPrefix + "BOOTSTRAP_SERVERS"
	envClientID         = envPrefix + "CLIENT_ID"
	envSASLMechanism    = envPrefix + "SASL_MECHANISM"
	envSASLUsername     = envPrefix + "SASL_USERNAME"
	envSASLPassword     = envPrefix + "SASL_PASSWORD"
	envTLS              = envPrefix + "TLS"
	envTLSCA            = envPrefix + "TLS_CA"
	envTLSCert          = envPrefix + "TLS_CERT"
	envTLSKey           = envPrefix + "TLS_KEY"
	envTimeout          = envPrefix + "TIMEOUT"
	envRefreshInterval  = envPrefix + "REFRESH_INTERVAL"
	envWarnAfter        = envPrefix + "WARN_AFTER"
	envClipboard        = envPrefix + "CLIPBOARD"
	envHighlight        = envPrefix + "HIGHLIGHT"
	envWidth            = envPrefix + "WIDTH"
	envHeight           = envPrefix + "HEIGHT"
	envFooter           = envPrefix + "FOOTER"
	envConfig           = envPrefix + "CONFIG"
	envLogFile          = envPrefix + "LOG_FILE"
	envLogLevel         = envPrefix + "LOG_LEVEL"
	envTrace            = envPrefix + "TRACE"

	defaultConfigPath      = "~/.config/kafka2i/config.toml"
	defaultClientID        = "kafka2i"
	defaultTimeout         = 30 * time.Second
	defaultRefreshInterval = 30 * time.Second
	defaultWarnAfter       = 3
	defaultLogFile         = "kafka2i.log"
	defaultLogLevel        = "info"
)

// Options holds raw flag values bound to a flag set. Environment variables
// become the flag defaults; Resolve layers the config file underneath.
type Options struct {
	fs  *pflag.FlagSet
	env map[string]string

	bootstrapServers string
	clientID         string
	saslMechanism    string
	saslUsername     string
	saslPassword     string
	tlsEnabled       bool
	tlsCA            string
	tlsCert          string
	tlsKey           string
	timeout          time.Duration
	refreshInterval  time.Duration
	warnAfter        int
	clipboard        bool
	highlight        bool
	width            int
	height           int
	footer           bool
	configFile       string
	logFile          string
	logLevel         string
	trace            bool
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("kafka2i", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	opts := Bind(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := opts.Resolve()
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// Bind registers every flag on fs with environment-derived defaults.
func Bind(fs *pflag.FlagSet, environ []string) *Options {
	env := parseEnv(environ)
	o := &Options{fs: fs, env: env}

	fs.StringVarP(&o.bootstrapServers, "bootstrap-servers", "b", envOrDefault(env, envBootstrapServers, ""), "Kafka bootstrap servers (host:port, comma-separated)")
	fs.StringVar(&o.clientID, "client-id", envOrDefault(env, envClientID, defaultClientID), "Kafka client id prefix")
	fs.StringVar(&o.saslMechanism, "sasl-mechanism", envOrDefault(env, envSASLMechanism, ""), "SASL mechanism (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512)")
	fs.StringVar(&o.saslUsername, "sasl-username", envOrDefault(env, envSASLUsername, ""), "SASL username")
	fs.StringVar(&o.saslPassword, "sasl-password", envOrDefault(env, envSASLPassword, ""), "SASL password")
	fs.BoolVar(&o.tlsEnabled, "tls", envOrBool(env, envTLS, false), "enable TLS")
	fs.StringVar(&o.tlsCA, "tls-ca", envOrDefault(env, envTLSCA, ""), "path to TLS CA certificate")
	fs.StringVar(&o.tlsCert, "tls-cert", envOrDefault(env, envTLSCert, ""), "path to TLS client certificate")
	fs.StringVar(&o.tlsKey, "tls-key", envOrDefault(env, envTLSKey, ""), "path to TLS client private key")
	fs.DurationVar(&o.timeout, "timeout", envOrDuration(env, envTimeout, defaultTimeout), "Kafka request timeout")
	fs.DurationVar(&o.refreshInterval, "refresh-interval", envOrDuration(env, envRefreshInterval, defaultRefreshInterval), "metadata refresh period")
	fs.IntVar(&o.warnAfter, "warn-after", envOrInt(env, envWarnAfter, defaultWarnAfter), "consecutive refresh failures before a persistent warning")
	fs.BoolVar(&o.clipboard, "clipboard", envOrBool(env, envClipboard, true), "copy the displayed message to the system clipboard")
	fs.BoolVar(&o.highlight, "highlight", envOrBool(env, envHighlight, true), "syntax highlight JSON payloads")
	fs.IntVar(&o.width, "width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	fs.IntVar(&o.height, "height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	fs.BoolVar(&o.footer, "footer", envOrBool(env, envFooter, true), "show the key hint row")
	fs.StringVarP(&o.configFile, "config", "c", envOrDefault(env, envConfig, ""), "path to the config file (default "+defaultConfigPath+")")
	fs.StringVar(&o.logFile, "log-file", envOrDefault(env, envLogFile, ""), "path to the log file (default "+defaultLogFile+")")
	fs.StringVar(&o.logLevel, "log-level", envOrDefault(env, envLogLevel, defaultLogLevel), "log level (debug, info, warn, error)")
	fs.BoolVar(&o.trace, "trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")

	return o
}

// fileConfig mirrors the TOML config file. Pointers distinguish "absent"
// from zero values.
type fileConfig struct {
	BootstrapServers string `toml:"bootstrap_servers"`
	ClientID         string `toml:"client_id"`
	SASL             struct {
		Mechanism string `toml:"mechanism"`
		Username  string `toml:"username"`
		Password  string `toml:"password"`
	} `toml:"sasl"`
	TLS struct {
		Enabled  *bool  `toml:"enabled"`
		CAFile   string `toml:"ca_file"`
		CertFile string `toml:"cert_file"`
		KeyFile  string `toml:"key_file"`
	} `toml:"tls"`
	Timeout         string `toml:"timeout"`
	RefreshInterval string `toml:"refresh_interval"`
	WarnAfter       *int   `toml:"warn_after"`
	Clipboard       *bool  `toml:"clipboard"`
	Highlight       *bool  `toml:"highlight"`
	Footer          *bool  `toml:"footer"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	Trace           *bool  `toml:"trace"`
}

// Resolve applies the config file beneath flags and environment, validates
// the result and returns the final configuration.
func (o *Options) Resolve() (Config, error) {
	path, explicit := o.configPath()
	file, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}
	if file != nil {
		if err := o.applyFile(file); err != nil {
			return Config{}, err
		}
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return Config{}, kerrors.ConfigInvalid(err.Error())
	}
	logFile := o.logFile
	if strings.TrimSpace(logFile) == "" {
		logFile = defaultLogFile
	}

	cfg := Config{
		Kafka: kafka.Config{
			BootstrapServers: splitServers(o.bootstrapServers),
			ClientID:         strings.TrimSpace(o.clientID),
			SASLMechanism:    strings.ToUpper(strings.TrimSpace(o.saslMechanism)),
			Username:         o.saslUsername,
			Password:         o.saslPassword,
			TLSEnabled:       o.tlsEnabled,
			TLSCAFile:        expandPath(o.tlsCA),
			TLSCertFile:      expandPath(o.tlsCert),
			TLSKeyFile:       expandPath(o.tlsKey),
			Timeout:          o.timeout,
		},
		App: app.Config{
			Width:           o.width,
			Height:          o.height,
			ShowFooter:      o.footer,
			RefreshInterval: o.refreshInterval,
			WarnAfter:       o.warnAfter,
			Clipboard:       o.clipboard,
			Highlight:       o.highlight,
		},
		Logging: Logging{
			FilePath: expandPath(logFile),
			Level:    level,
			Trace:    o.trace,
		},
		Flags: map[string]string{
			"bootstrapServers": o.bootstrapServers,
			"clientID":         o.clientID,
			"saslMechanism":    o.saslMechanism,
			"saslUsername":     o.saslUsername,
			"saslPassword":     redact(o.saslPassword),
			"tls":              strconv.FormatBool(o.tlsEnabled),
			"timeout":          o.timeout.String(),
			"refreshInterval":  o.refreshInterval.String(),
			"warnAfter":        strconv.Itoa(o.warnAfter),
			"clipboard":        strconv.FormatBool(o.clipboard),
			"highlight":        strconv.FormatBool(o.highlight),
			"width":            strconv.Itoa(o.width),
			"height":           strconv.Itoa(o.height),
			"footer":           strconv.FormatBool(o.footer),
			"logFile":          logFile,
			"logLevel":         o.logLevel,
			"trace":            strconv.FormatBool(o.trace),
		},
	}
	if file != nil {
		cfg.ConfigFile = path
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (o *Options) configPath() (string, bool) {
	if strings.TrimSpace(o.configFile) != "" {
		return expandPath(o.configFile), true
	}
	return expandPath(defaultConfigPath), false
}

// set reports whether a value came from the command line or environment,
// which both outrank the config file.
func (o *Options) set(flag, envKey string) bool {
	if o.fs != nil && o.fs.Changed(flag) {
		return true
	}
	_, ok := o.env[envKey]
	return ok
}

func (o *Options) applyFile(f *fileConfig) error {
	str := func(flag, envKey string, dst *string, v string) {
		if v != "" && !o.set(flag, envKey) {
			*dst = v
		}
	}
	boolean := func(flag, envKey string, dst *bool, v *bool) {
		if v != nil && !o.set(flag, envKey) {
			*dst = *v
		}
	}
	duration := func(flag, envKey string, dst *time.Duration, v string) error {
		if v == "" || o.set(flag, envKey) {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return kerrors.ConfigInvalid(fmt.Sprintf("%s: invalid duration %q", flag, v))
		}
		*dst = d
		return nil
	}

	str("bootstrap-servers", envBootstrapServers, &o.bootstrapServers, f.BootstrapServers)
	str("client-id", envClientID, &o.clientID, f.ClientID)
	str("sasl-mechanism", envSASLMechanism, &o.saslMechanism, f.SASL.Mechanism)
	str("sasl-username", envSASLUsername, &o.saslUsername, f.SASL.Username)
	str("sasl-password", envSASLPassword, &o.saslPassword, f.SASL.Password)
	boolean("tls", envTLS, &o.tlsEnabled, f.TLS.Enabled)
	str("tls-ca", envTLSCA, &o.tlsCA, f.TLS.CAFile)
	str("tls-cert", envTLSCert, &o.tlsCert, f.TLS.CertFile)
	str("tls-key", envTLSKey, &o.tlsKey, f.TLS.KeyFile)
	if err := duration("timeout", envTimeout, &o.timeout, f.Timeout); err != nil {
		return err
	}
	if err := duration("refresh-interval", envRefreshInterval, &o.refreshInterval, f.RefreshInterval); err != nil {
		return err
	}
	if f.WarnAfter != nil && !o.set("warn-after", envWarnAfter) {
		o.warnAfter = *f.WarnAfter
	}
	boolean("clipboard", envClipboard, &o.clipboard, f.Clipboard)
	boolean("highlight", envHighlight, &o.highlight, f.Highlight)
	boolean("footer", envFooter, &o.footer, f.Footer)
	str("log-file", envLogFile, &o.logFile, f.LogFile)
	str("log-level", envLogLevel, &o.logLevel, f.LogLevel)
	boolean("trace", envTrace, &o.trace, f.Trace)
	return nil
}

// readFile parses the TOML config at path. A missing default file is not an
// error; a missing explicit file is.
func readFile(path string, explicit bool) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, kerrors.ConfigInvalid(fmt.Sprintf("read config: %v", err))
	}
	var f fileConfig
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, kerrors.ConfigInvalid(fmt.Sprintf("parse config %s: %v", path, err))
	}
	return &f, nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if len(cfg.Kafka.BootstrapServers) == 0 {
		return kerrors.ConfigInvalid("bootstrap servers are required (--bootstrap-servers or " + envBootstrapServers + ")")
	}
	if m := cfg.Kafka.SASLMechanism; m != "" {
		known := false
		for _, s := range kafka.SupportedMechanisms {
			if s == m {
				known = true
				break
			}
		}
		if !known {
			return kerrors.ConfigInvalid(fmt.Sprintf("unsupported SASL mechanism %q", m))
		}
		if strings.TrimSpace(cfg.Kafka.Username) == "" {
			return kerrors.ConfigInvalid("SASL mechanism " + m + " requires a username")
		}
	}
	if cfg.Kafka.Timeout <= 0 {
		return kerrors.ConfigInvalid(fmt.Sprintf("timeout must be > 0 (got %s)", cfg.Kafka.Timeout))
	}
	if cfg.App.RefreshInterval <= 0 {
		return kerrors.ConfigInvalid(fmt.Sprintf("refresh interval must be > 0 (got %s)", cfg.App.RefreshInterval))
	}
	if cfg.App.WarnAfter < 1 {
		return kerrors.ConfigInvalid(fmt.Sprintf("warn-after must be >= 1 (got %d)", cfg.App.WarnAfter))
	}
	if cfg.App.Width < 0 {
		return kerrors.ConfigInvalid(fmt.Sprintf("width must be >= 0 (got %d)", cfg.App.Width))
	}
	if cfg.App.Height < 0 {
		return kerrors.ConfigInvalid(fmt.Sprintf("height must be >= 0 (got %d)", cfg.App.Height))
	}
	return nil
}

func splitServers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func expandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || !strings.HasPrefix(trimmed, "~") {
		return trimmed
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return trimmed
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
