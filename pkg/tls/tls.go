package tls

import (
    "context"
    "crypto/tls"
    "fmt"

    "github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
    "github.com/spiffe/go-spiffe/v2/workloadapi"
    "go.uber.org/zap"
)

type TLSConfig struct {
    Enabled    bool   `envconfig:"TLS_ENABLED" default:"false"`
    SocketPath string `envconfig:"SPIRE_SOCKET_PATH" default:"unix:///run/spire/sockets/agent.sock"`
}

// Source wraps the SPIRE workload API source so the caller can close it
// on shutdown.
type Source struct {
    x509Source *workloadapi.X509Source
    Config     *tls.Config
}

// Load builds an mTLS server config from the SPIRE workload API. Returns
// a nil Source when TLS is disabled.
func Load(ctx context.Context, cfg *TLSConfig, logger *zap.Logger) (*Source, error) {
    if !cfg.Enabled {
        logger.Info("TLS is disabled")
        return nil, nil
    }

    source, err := workloadapi.NewX509Source(
        ctx,
        workloadapi.WithClientOptions(
            workloadapi.WithAddr(cfg.SocketPath),
        ),
    )
    if err != nil {
        return nil, fmt.Errorf("unable to create X509Source: %w", err)
    }

    tlsConfig := tlsconfig.MTLSServerConfig(source, source, tlsconfig.AuthorizeAny())
    tlsConfig.MinVersion = tls.VersionTLS12

    logger.Info("SPIRE TLS configuration loaded",
        zap.String("socket_path", cfg.SocketPath),
        zap.Bool("mtls_enabled", true))

    return &Source{x509Source: source, Config: tlsConfig}, nil
}

func (s *Source) Close() {
    if s != nil && s.x509Source != nil {
        s.x509Source.Close()
    }
}
