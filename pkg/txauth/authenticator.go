package txauth

import (
	"go.uber.org/zap"
)

// Recorder receives signing and validation outcomes. *metrics.Metrics
// implements it.
type Recorder interface {
	SignaturesCreated(n int)
	ValidationResult(valid bool)
	OwnerExtractionFailed(contractType string)
}

type noopRecorder struct{}

func (noopRecorder) SignaturesCreated(int)        {}
func (noopRecorder) ValidationResult(bool)        {}
func (noopRecorder) OwnerExtractionFailed(string) {}

// Authenticator signs transactions and checks their signatures. It keeps no
// per-transaction state and is safe for concurrent use.
type Authenticator struct {
	logger   *zap.Logger
	recorder Recorder
}

type Option func(*Authenticator)

// WithMetrics reports outcomes to r.
func WithMetrics(r Recorder) Option {
	return func(a *Authenticator) {
		if r != nil {
			a.recorder = r
		}
	}
}

func NewAuthenticator(logger *zap.Logger, opts ...Option) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Authenticator{
		logger:   logger,
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
