package bright

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedVersion reports a CMDaemon version no adapter exists for.
var ErrUnsupportedVersion = errors.New("unsupported cmdaemon version")

// Adapter is the version-specific protocol behind the facade. Both
// implementations expose the same capabilities: resolving a named
// measurable, fetching its latest raw samples, and mapping one raw
// sample into the normalized model.
type Adapter interface {
	Measurable(ctx context.Context, name string) (map[string]interface{}, error)
	LatestMeasurableData(ctx context.Context, measurable, node string) ([]map[string]interface{}, error)
	MapMeasurable(raw map[string]interface{}) (*HealthCheck, error)
}

// newAdapter selects the protocol implementation for a reported version
// string. Only major versions 7 and 8 are supported.
func newAdapter(client *Client, version string) (Adapter, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(version), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	switch int(parsed) {
	case 7:
		return NewClientV7(client), nil
	case 8:
		return NewClientV8(client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
}

// ServiceConfig configures the health check facade.
type ServiceConfig struct {
	Client Config

	// Version pins the protocol version. Empty means probe the appliance
	// at construction.
	Version string

	// Measurables is the ordered allow-list of health check names the
	// service answers for.
	Measurables []string
}

// Service is the version-agnostic health check facade. It holds the one
// adapter selected at construction for its whole lifetime; the selection
// is never re-probed.
type Service struct {
	client      *Client
	adapter     Adapter
	version     string
	measurables []string
}

// NewService builds the facade: it creates the base client, probes the
// appliance version unless one is pinned, and selects the matching
// protocol adapter. An unsupported version fails construction.
func NewService(ctx context.Context, cfg ServiceConfig, opts ...Option) (*Service, error) {
	client, err := NewClient(cfg.Client, opts...)
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version, err = client.Version(ctx)
		if err != nil {
			return nil, err
		}
	}

	adapter, err := newAdapter(client, version)
	if err != nil {
		return nil, err
	}

	return &Service{
		client:      client,
		adapter:     adapter,
		version:     version,
		measurables: append([]string(nil), cfg.Measurables...),
	}, nil
}

// Version returns the upstream version the adapter was selected for.
func (s *Service) Version() string {
	return s.version
}

// Supported reports whether a health check name is on the allow-list.
func (s *Service) Supported(name string) bool {
	for _, m := range s.measurables {
		if m == name {
			return true
		}
	}
	return false
}

// SupportedMeasurables returns the configured allow-list in order.
func (s *Service) SupportedMeasurables() []string {
	return append([]string(nil), s.measurables...)
}

// HealthCheck returns the current state of one named check, optionally
// scoped to a node. Names off the allow-list return nil without touching
// upstream; so do checks upstream has no data for.
func (s *Service) HealthCheck(ctx context.Context, name, node string) (*HealthCheck, error) {
	if !s.Supported(name) {
		return nil, nil
	}

	data, err := s.adapter.LatestMeasurableData(ctx, name, node)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return s.adapter.MapMeasurable(data[0])
}

// HealthChecks returns the current state of every allow-listed check, in
// allow-list order, skipping checks with no data.
func (s *Service) HealthChecks(ctx context.Context, node string) ([]HealthCheck, error) {
	checks := make([]HealthCheck, 0, len(s.measurables))
	for _, name := range s.measurables {
		check, err := s.HealthCheck(ctx, name, node)
		if err != nil {
			return nil, err
		}
		if check == nil {
			continue
		}
		checks = append(checks, *check)
	}
	return checks, nil
}

// Ping checks upstream connectivity using the version probe.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.client.Version(ctx)
	return err
}
