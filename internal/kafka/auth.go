package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// SupportedMechanisms lists the SASL mechanisms accepted by buildSASL.
var SupportedMechanisms = []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}

// buildSASL creates SASL authentication options based on the mechanism
func buildSASL(cfg Config) (kgo.Opt, error) {
	switch strings.ToUpper(cfg.SASLMechanism) {
	case "PLAIN":
		return kgo.SASL(plain.Auth{
			User: cfg.Username,
			Pass: cfg.Password,
		}.AsMechanism()), nil
	case "SCRAM-SHA-256":
		return kgo.SASL(scram.Auth{
			User: cfg.Username,
			Pass: cfg.Password,
		}.AsSha256Mechanism()), nil
	case "SCRAM-SHA-512":
		return kgo.SASL(scram.Auth{
			User: cfg.Username,
			Pass: cfg.Password,
		}.AsSha512Mechanism()), nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// buildTLS creates TLS configuration from the provided cert files
func buildTLS(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

func tlsRequested(cfg Config) bool {
	return cfg.TLSEnabled || cfg.TLSCertFile != "" || cfg.TLSCAFile != ""
}

// seedBrokers drops blank entries from the bootstrap list. An entry may
// itself be comma separated.
func seedBrokers(servers []string) []string {
	seeds := make([]string, 0, len(servers))
	for _, entry := range servers {
		for _, part := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				seeds = append(seeds, trimmed)
			}
		}
	}
	return seeds
}

// clientOptions builds the options shared by the admin client and every
// partition consumer.
func clientOptions(cfg Config) ([]kgo.Opt, error) {
	seeds := seedBrokers(cfg.BootstrapServers)
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no bootstrap servers configured")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(seeds...),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(cfg.Timeout))
	}
	if cfg.SASLMechanism != "" {
		saslOpt, err := buildSASL(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure SASL: %w", err)
		}
		opts = append(opts, saslOpt)
	}
	if tlsRequested(cfg) {
		tlsConfig, err := buildTLS(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}
	return opts, nil
}
