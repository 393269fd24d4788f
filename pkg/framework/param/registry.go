package param

import (
	"fmt"
	"sync"
)

// Registry manages plugin parameters by symbol, keeping declaration order for
// indexed access.
type Registry struct {
	params map[string]*Parameter
	order  []string
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[string]*Parameter),
	}
}

// Add registers parameters. A duplicate symbol is an error.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.Symbol]; exists {
			return fmt.Errorf("parameter %q already registered", p.Symbol)
		}
		r.params[p.Symbol] = p
		r.order = append(r.order, p.Symbol)
	}
	return nil
}

// Get retrieves a parameter by symbol
func (r *Registry) Get(symbol string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[symbol]
}

// GetByIndex retrieves a parameter by declaration index
func (r *Registry) GetByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, symbol := range r.order {
		result[i] = r.params[symbol]
	}
	return result
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
