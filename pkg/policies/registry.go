package policies

import (
	"fmt"
	"sort"
	"sync"

	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/policy"
)

// Factory builds a policy from its configuration.
type Factory func(cfg config.PolicyConfig, opts ...Option) (policy.Policy, error)

// Registry maps policy type names to factories.
//
// # Thread Safety
//
// Registry is safe for concurrent use. Registration typically happens at
// startup; builds may run concurrently afterwards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry creates a registry with the built-in policy types:
// noop, count, timeout, rate, schedule and expr.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister("noop", buildNoOp)
	r.mustRegister("count", buildCount)
	r.mustRegister("timeout", buildTimeout)
	r.mustRegister("rate", buildRate)
	r.mustRegister("schedule", buildSchedule)
	r.mustRegister("expr", buildExpr)
	return r
}

// Register adds a factory under name. Registering a name twice fails.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("policy type name is required")
	}
	if f == nil {
		return fmt.Errorf("factory for policy type %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("policy type %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) mustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a single policy from its configuration.
func (r *Registry) Build(cfg config.PolicyConfig, opts ...Option) (policy.Policy, error) {
	r.mu.RLock()
	f, ok := r.factories[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown policy type %q", cfg.Type)
	}

	p, err := f(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s policy: %w", cfg.Type, err)
	}
	return p, nil
}

// BuildChain creates the composite described by cfg. Gate "all" (AND)
// produces a *policy.AllOf; any other gate produces a *policy.Chain.
// Every member is built fresh, so two builds never share state.
func (r *Registry) BuildChain(cfg config.ChainConfig, opts ...Option) (policy.Policy, error) {
	members := make([]policy.Policy, 0, len(cfg.Policies))
	for i, pc := range cfg.Policies {
		p, err := r.Build(pc, opts...)
		if err != nil {
			return nil, fmt.Errorf("chain %q policy %d: %w", cfg.Name, i, err)
		}
		members = append(members, p)
	}

	if cfg.Gate == "all" {
		all, err := policy.All(members...)
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", cfg.Name, err)
		}
		return all, nil
	}

	chain, err := policy.NewChain(members...)
	if err != nil {
		return nil, fmt.Errorf("chain %q: %w", cfg.Name, err)
	}
	return chain, nil
}

func buildNoOp(config.PolicyConfig, ...Option) (policy.Policy, error) {
	return NewNoOp(), nil
}

func buildCount(cfg config.PolicyConfig, _ ...Option) (policy.Policy, error) {
	return NewCount(cfg.Amount), nil
}

func buildTimeout(cfg config.PolicyConfig, opts ...Option) (policy.Policy, error) {
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %v", cfg.Timeout)
	}
	return NewTimeout(cfg.Timeout, opts...), nil
}

func buildRate(cfg config.PolicyConfig, opts ...Option) (policy.Policy, error) {
	if cfg.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", cfg.Rate)
	}
	return NewRate(cfg.Rate, cfg.Burst, opts...), nil
}

func buildSchedule(cfg config.PolicyConfig, _ ...Option) (policy.Policy, error) {
	if cfg.Schedule == "" {
		return nil, fmt.Errorf("schedule is required")
	}
	return NewSchedule(cfg.Schedule)
}

func buildExpr(cfg config.PolicyConfig, opts ...Option) (policy.Policy, error) {
	if cfg.Expression == "" {
		return nil, fmt.Errorf("expression is required")
	}
	return NewExpr(cfg.Expression, opts...)
}
