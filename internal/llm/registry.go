package llm

import (
	"sort"
	"strings"
)

// Registry holds the configured providers keyed by model name, grouped by
// provider family so each group runs under its own rate policy.
type Registry struct {
	providers map[string]Provider
	groups    map[string][]Provider
	pacing    map[string]Pacing
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		groups:    make(map[string][]Provider),
		pacing:    make(map[string]Pacing),
	}
}

func (r *Registry) Register(p Provider) {
	if r == nil || p == nil {
		return
	}
	name := strings.TrimSpace(p.Name())
	if name == "" {
		return
	}
	if _, dup := r.providers[name]; dup {
		return
	}
	r.providers[name] = p
	group := strings.ToLower(strings.TrimSpace(p.Group()))
	r.groups[group] = append(r.groups[group], p)
	r.order = append(r.order, name)
}

func (r *Registry) SetPacing(group string, pacing Pacing) {
	if r == nil {
		return
	}
	r.pacing[strings.ToLower(strings.TrimSpace(group))] = pacing
}

func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil || r.providers == nil {
		return nil, false
	}
	p, ok := r.providers[strings.TrimSpace(name)]
	return p, ok
}

// Models returns every registered model name in registration order.
func (r *Registry) Models() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Groups returns the provider group names in sorted order.
func (r *Registry) Groups() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.groups))
	for g := range r.groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// GroupProviders returns the providers of one group in registration order.
func (r *Registry) GroupProviders(group string) []Provider {
	if r == nil {
		return nil
	}
	return r.groups[strings.ToLower(strings.TrimSpace(group))]
}

// GroupPacing returns the group's rate policy, zero-valued if none was set.
func (r *Registry) GroupPacing(group string) Pacing {
	if r == nil {
		return Pacing{}
	}
	return r.pacing[strings.ToLower(strings.TrimSpace(group))]
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}
