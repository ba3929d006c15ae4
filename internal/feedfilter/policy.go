// Package feedfilter decides, per incoming aircraft message, whether the
// message may propagate to downstream consumers, and if so in what form.
// The policy is replaced wholesale on configuration changes; readers always
// observe either the fully-old or fully-new policy.
package feedfilter

import (
	"context"
	"strings"
	"sync"

	"github.com/tailscan/tailscan/internal/config"
	"github.com/tailscan/tailscan/pkg/logger"
)

// Policy is an immutable snapshot of the filter settings. Once published via
// the service it is never mutated; updates build a fresh value and swap it.
type Policy struct {
	Enabled                   bool
	ProhibitMLAT              bool
	ProhibitUnfilterableFeeds bool
	ProhibitICAOs             bool // true = icaoSet is a blacklist, false = whitelist
	icaoSet                   map[string]struct{}
}

// NormalizeICAO returns the canonical form of an ICAO24 hex address:
// trimmed, uppercase, exactly 6 hex characters. It returns "" for anything
// malformed. Normalization is idempotent.
func NormalizeICAO(icao string) string {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	if len(icao) != 6 {
		return ""
	}
	for i := 0; i < len(icao); i++ {
		c := icao[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return ""
		}
	}
	return icao
}

// normalizeICAOSet normalizes a list of ICAO addresses into a set, silently
// dropping malformed entries. A malformed entry never fails the whole update.
func normalizeICAOSet(icaos []string) map[string]struct{} {
	set := make(map[string]struct{}, len(icaos))
	for _, raw := range icaos {
		if icao := NormalizeICAO(raw); icao != "" {
			set[icao] = struct{}{}
		}
	}
	return set
}

// Service holds the current filter policy and answers prohibition queries.
// It is safe for concurrent use: queries take a read lock only long enough
// to grab the current policy pointer, so in-flight filtering decisions are
// never blocked by a policy swap.
type Service struct {
	mu     sync.RWMutex
	policy *Policy
	logger *logger.Logger
}

// NewService creates a filter service with the given initial settings
func NewService(cfg config.FilterConfig, log *logger.Logger) *Service {
	s := &Service{logger: log.Named("feedfilter")}
	s.Apply(cfg)
	return s
}

// snapshot returns the current policy pointer
func (s *Service) snapshot() *Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// Apply replaces the whole policy from a configuration section
func (s *Service) Apply(cfg config.FilterConfig) {
	p := &Policy{
		Enabled:                   cfg.Enabled,
		ProhibitMLAT:              cfg.ProhibitMLAT,
		ProhibitUnfilterableFeeds: cfg.ProhibitUnfilterableFeeds,
		ProhibitICAOs:             cfg.ProhibitICAOs,
		icaoSet:                   normalizeICAOSet(cfg.ICAOs),
	}

	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()

	s.logger.Info("Filter policy applied",
		logger.Bool("enabled", p.Enabled),
		logger.Bool("prohibit_mlat", p.ProhibitMLAT),
		logger.Bool("prohibit_unfilterable_feeds", p.ProhibitUnfilterableFeeds),
		logger.Bool("prohibit_icaos", p.ProhibitICAOs),
		logger.Int("icao_count", len(p.icaoSet)))
}

// ApplyOptionsChange replaces the option-level fields of the policy,
// retaining the current MLAT and ICAO settings
func (s *Service) ApplyOptionsChange(enabled, prohibitUnfilterableFeeds bool) {
	s.mu.Lock()
	old := s.policy
	s.policy = &Policy{
		Enabled:                   enabled,
		ProhibitMLAT:              old.ProhibitMLAT,
		ProhibitUnfilterableFeeds: prohibitUnfilterableFeeds,
		ProhibitICAOs:             old.ProhibitICAOs,
		icaoSet:                   old.icaoSet,
	}
	s.mu.Unlock()
}

// ApplyFilterChange replaces the filter-level fields of the policy,
// retaining the current enabled and unfilterable-feed settings
func (s *Service) ApplyFilterChange(prohibitMLAT, prohibitICAOs bool, icaos []string) {
	set := normalizeICAOSet(icaos)

	s.mu.Lock()
	old := s.policy
	s.policy = &Policy{
		Enabled:                   old.Enabled,
		ProhibitMLAT:              prohibitMLAT,
		ProhibitUnfilterableFeeds: old.ProhibitUnfilterableFeeds,
		ProhibitICAOs:             prohibitICAOs,
		icaoSet:                   set,
	}
	s.mu.Unlock()
}

// IsMLATProhibited reports whether MLAT-derived data must be suppressed.
// Always false while the filter is disabled.
func (s *Service) IsMLATProhibited() bool {
	p := s.snapshot()
	return p.Enabled && p.ProhibitMLAT
}

// AreUnfilterableFeedsProhibited reports whether feeds that cannot be
// filtered per-message should be rejected. The feed management layer is the
// consumer of this flag; the message filter itself does not enforce it.
// Always false while the filter is disabled.
func (s *Service) AreUnfilterableFeedsProhibited() bool {
	p := s.snapshot()
	return p.Enabled && p.ProhibitUnfilterableFeeds
}

// IsICAOProhibited reports whether messages for the given ICAO24 address
// must be dropped. The input is normalized the same way list entries are.
// An empty or malformed address is never prohibited, and always false while
// the filter is disabled.
func (s *Service) IsICAOProhibited(icao string) bool {
	p := s.snapshot()
	return p.isICAOProhibited(icao)
}

func (p *Policy) isICAOProhibited(icao string) bool {
	if !p.Enabled {
		return false
	}
	icao = NormalizeICAO(icao)
	if icao == "" {
		return false
	}
	_, listed := p.icaoSet[icao]
	if p.ProhibitICAOs {
		return listed
	}
	return !listed
}

// Run consumes filter configuration updates until the context is cancelled.
// Each update replaces the policy synchronously on receipt.
func (s *Service) Run(ctx context.Context, updates <-chan config.FilterConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			s.Apply(cfg)
		}
	}
}
