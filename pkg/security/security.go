// Package security gates access to named autocomplete handlers. Each handler
// name can be mapped to an ACL resource; the resource check is delegated to a
// Decider. Names without a rule fall back to the configured default policy.
package security

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Policy decides the outcome for handler names with no registered rule.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
)

// ParsePolicy validates a textual policy. An empty value yields PolicyAllow.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyAllow:
		return PolicyAllow, nil
	case PolicyDeny:
		return PolicyDeny, nil
	default:
		return "", fmt.Errorf("security: unknown default policy %q", raw)
	}
}

// Decider checks whether the caller in ctx is granted an ACL resource.
type Decider interface {
	IsGranted(ctx context.Context, resource string) bool
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, resource string) bool

// IsGranted calls f.
func (f DeciderFunc) IsGranted(ctx context.Context, resource string) bool {
	return f(ctx, resource)
}

// PermissionDecider grants a resource when the context identity holds it as a
// permission.
type PermissionDecider struct{}

// IsGranted implements Decider.
func (PermissionDecider) IsGranted(ctx context.Context, resource string) bool {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return false
	}
	return identity.Can(resource)
}

// Security answers autocomplete access questions.
type Security struct {
	rules         map[string]string
	decider       Decider
	defaultPolicy Policy
	logger        *zap.Logger
}

// Option configures Security.
type Option func(*Security)

// WithRule maps an autocomplete handler name to an ACL resource.
func WithRule(name, resource string) Option {
	return func(s *Security) {
		name = strings.TrimSpace(name)
		resource = strings.TrimSpace(resource)
		if name == "" || resource == "" {
			return
		}
		s.rules[name] = resource
	}
}

// WithRules maps several handler names at once.
func WithRules(rules map[string]string) Option {
	return func(s *Security) {
		for name, resource := range rules {
			WithRule(name, resource)(s)
		}
	}
}

// WithDecider overrides the resource decider. Defaults to PermissionDecider.
func WithDecider(decider Decider) Option {
	return func(s *Security) {
		if decider != nil {
			s.decider = decider
		}
	}
}

// WithDefaultPolicy sets the outcome for names with no rule.
func WithDefaultPolicy(policy Policy) Option {
	return func(s *Security) {
		if policy != "" {
			s.defaultPolicy = policy
		}
	}
}

// WithLogger attaches a logger for access decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Security) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Security with PolicyAllow and a PermissionDecider unless
// overridden.
func New(opts ...Option) *Security {
	s := &Security{
		rules:         make(map[string]string),
		decider:       PermissionDecider{},
		defaultPolicy: PolicyAllow,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// IsAutocompleteGranted reports whether the caller may query handler name.
func (s *Security) IsAutocompleteGranted(ctx context.Context, name string) bool {
	if s == nil {
		return false
	}
	resource, ok := s.Resource(name)
	if !ok {
		granted := s.defaultPolicy != PolicyDeny
		s.logger.Debug("autocomplete access resolved by default policy",
			zap.String("handler", name),
			zap.String("policy", string(s.defaultPolicy)),
			zap.Bool("granted", granted),
		)
		return granted
	}

	granted := s.decider.IsGranted(ctx, resource)
	if !granted {
		s.logger.Info("autocomplete access denied",
			zap.String("handler", name),
			zap.String("resource", resource),
		)
	}
	return granted
}

// Resource returns the ACL resource mapped to name.
func (s *Security) Resource(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	resource, ok := s.rules[strings.TrimSpace(name)]
	return resource, ok
}

// DefaultPolicy returns the policy applied to names with no rule.
func (s *Security) DefaultPolicy() Policy {
	if s == nil {
		return PolicyDeny
	}
	return s.defaultPolicy
}

// Unguarded returns the sorted subset of names that have no rule.
func (s *Security) Unguarded(names ...string) []string {
	var out []string
	for _, name := range names {
		if _, ok := s.Resource(name); !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
