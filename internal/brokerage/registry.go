package brokerage

import (
	"fmt"
	"sort"

	"lean/internal/config"
)

// Constructor builds a BrokerageModel from configuration. history may be nil
// when no rate limit is configured.
type Constructor func(cfg config.Brokerage, history SubmissionHistory) (BrokerageModel, error)

// Registry holds named BrokerageModel constructors.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
	}
}

// DefaultRegistry returns a Registry with the built-in models: "default",
// "rules", and "alpaca".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("default", newDefaultFromConfig)
	r.Register("rules", newRulesFromConfig)
	r.Register("alpaca", newAlpacaFromConfig)
	return r
}

// Register adds a constructor under name, replacing any previous one.
func (r *Registry) Register(name string, ctor Constructor) {
	r.ctors[name] = ctor
}

// Get retrieves a constructor by name. The second return value indicates
// whether it was found.
func (r *Registry) Get(name string) (Constructor, bool) {
	c, ok := r.ctors[name]
	return c, ok
}

// List returns a sorted slice of all registered model names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the model named by cfg.Model ("default" when empty).
func (r *Registry) New(cfg config.Brokerage, history SubmissionHistory) (BrokerageModel, error) {
	name := cfg.Model
	if name == "" {
		name = "default"
	}
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &ConfigurationError{
			Field: "model",
			Err:   fmt.Errorf("%w %q (registered: %v)", ErrUnknownModel, name, r.List()),
		}
	}
	return ctor(cfg, history)
}

// NewFromConfig builds a model from cfg using the DefaultRegistry.
func NewFromConfig(cfg config.Brokerage, history SubmissionHistory) (BrokerageModel, error) {
	return DefaultRegistry().New(cfg, history)
}
