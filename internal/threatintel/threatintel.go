// File: internal/threatintel/threatintel.go

// Package threatintel supplies the deny-lists the security audit consults:
// suspicious domains, phishing-intent text patterns, and known-malicious
// owner addresses. The lists live behind the Intel interface so they can be
// swapped for a live feed or test fixtures without touching check logic.
package threatintel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xkilldash9x/agentlens/internal/config"
)

// Intel is the capability interface consumed by the audit checks.
type Intel interface {
	// SuspiciousDomain reports whether the URL contains a deny-listed
	// domain, returning the matched entry.
	SuspiciousDomain(rawURL string) (string, bool)
	// MatchPhishing returns the source expressions of every phishing
	// pattern that matches the given lowercased text, in list order.
	MatchPhishing(text string) []string
	// IsBlacklisted reports whether the owner address is deny-listed.
	// The comparison is case-insensitive.
	IsBlacklisted(address string) bool
}

// defaultSuspiciousDomains covers URL shorteners, ephemeral tunnels, and
// local-development hosts that have no business inside a published agent
// record.
var defaultSuspiciousDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"is.gd",
	"cutt.ly",
	"rb.gy",
	"rebrand.ly",
	"ngrok.io",
	"ngrok-free.app",
	"trycloudflare.com",
	"loca.lt",
	"serveo.net",
	"localtunnel.me",
	"localhost.run",
}

// defaultPhishingPatterns are matched against the lowercased metadata
// document. Wallet-connect lures, airdrop/claim lures, and urgency lures.
var defaultPhishingPatterns = []string{
	`connect\s+(your\s+)?wallet`,
	`verify\s+(your\s+)?wallet`,
	`restore\s+(your\s+)?wallet`,
	`seed\s+phrase`,
	`airdrop`,
	`claim\s+(your\s+)?(free\s+)?(tokens?|rewards?|nfts?)`,
	`free\s+(tokens?|nfts?|mint)`,
	`act\s+now`,
	`limited\s+time`,
	`urgent`,
	`expires?\s+(soon|in)`,
}

// defaultBlacklistedAddresses are known-malicious or sanctioned addresses,
// stored lowercase.
var defaultBlacklistedAddresses = []string{
	"0x8589427373d6d84e98730d7795d8f6f8731fda16",
	"0x722122df12d4e14e13ac3b6895a86e84145b6967",
	"0xd90e2f925da726b50c4ed8d0fb90ad053324f31b",
	"0x098b716b8aaf21512996dc57eb0615e2383e2f96",
	"0x7f367cc41522ce07553e823bf3be79a889debe1b",
}

// Static is the compiled-in Intel implementation, extended by configuration.
type Static struct {
	domains   []string
	addresses map[string]struct{}
	patterns  []*regexp.Regexp
}

var _ Intel = (*Static)(nil)

// NewStatic builds a Static intel source from the built-in lists merged with
// the configured extensions. Configured phishing patterns must be valid
// regular expressions.
func NewStatic(cfg config.ThreatIntelConfig) (*Static, error) {
	s := &Static{
		addresses: make(map[string]struct{}),
	}

	s.domains = append(s.domains, defaultSuspiciousDomains...)
	for _, d := range cfg.SuspiciousDomains {
		s.domains = append(s.domains, strings.ToLower(strings.TrimSpace(d)))
	}

	for _, a := range defaultBlacklistedAddresses {
		s.addresses[a] = struct{}{}
	}
	for _, a := range cfg.BlacklistedAddresses {
		s.addresses[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}

	sources := make([]string, 0, len(defaultPhishingPatterns)+len(cfg.PhishingPatterns))
	sources = append(sources, defaultPhishingPatterns...)
	sources = append(sources, cfg.PhishingPatterns...)
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("invalid phishing pattern %q: %w", src, err)
		}
		s.patterns = append(s.patterns, re)
	}

	return s, nil
}

// SuspiciousDomain reports whether rawURL contains a deny-listed domain.
func (s *Static) SuspiciousDomain(rawURL string) (string, bool) {
	lower := strings.ToLower(rawURL)
	for _, d := range s.domains {
		if d != "" && strings.Contains(lower, d) {
			return d, true
		}
	}
	return "", false
}

// MatchPhishing returns the source of every pattern matching text.
func (s *Static) MatchPhishing(text string) []string {
	var matched []string
	for _, re := range s.patterns {
		if re.MatchString(text) {
			matched = append(matched, re.String())
		}
	}
	return matched
}

// IsBlacklisted reports whether address is deny-listed, ignoring case.
func (s *Static) IsBlacklisted(address string) bool {
	_, ok := s.addresses[strings.ToLower(address)]
	return ok
}
