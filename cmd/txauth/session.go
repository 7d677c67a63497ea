package main

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/config"
	"github.com/efeint01/TronClientSdk/pkg/logger"
	"github.com/efeint01/TronClientSdk/pkg/metrics"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

// session holds the per-invocation logger and config, plus an authenticator
// reporting to a private registry.
type session struct {
	logger   *zap.Logger
	cfg      *config.Config
	registry *prometheus.Registry
	auth     *txauth.Authenticator
	hex      bool
	metrics  bool
}

func newSession(c *cli.Context) (*session, error) {
	cfg := configFromContext(c)

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	return &session{
		logger:   l,
		cfg:      cfg,
		registry: registry,
		auth:     txauth.NewAuthenticator(l, txauth.WithMetrics(m)),
		hex:      c.Bool("hex"),
		metrics:  c.Bool("metrics"),
	}, nil
}

func (s *session) close() {
	if s.metrics {
		snapshot, err := metrics.Snapshot(s.registry)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to gather metrics", "error", err)
		} else {
			names := make([]string, 0, len(snapshot))
			for name := range snapshot {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				s.logger.Sugar().Infow("Metric", "name", name, "value", snapshot[name])
			}
		}
	}
	_ = s.logger.Sync()
}
