package constants

import (
	"fmt"
	"sort"
	"sync"
)

// ExtractorFactory creates and caches Extractor instances by name.
type ExtractorFactory interface {
	// Get returns the cached Extractor for name, creating it on first use.
	Get(name string) (Extractor, error)

	// List returns the sorted names of the registered extractors.
	List() []string

	// ByFamily returns the extractors of a family, sorted by name.
	ByFamily(family Family) []Extractor

	// Register adds or replaces an extractor route.
	Register(name string, creator func() coreExtractor) error
}

// DefaultFactory is a thread-safe registry of extractor creators. Extractor
// instances are created lazily and reused.
type DefaultFactory struct {
	mu         sync.RWMutex
	creators   map[string]func() coreExtractor
	extractors map[string]Extractor
}

// NewDefaultFactory creates a factory with the built-in routes registered.
//
// Pre-registered extractors:
//   - "stieltjes-log": shifted log-power route to γ_k
//   - "stieltjes-em": Euler–Maclaurin route to γ_k
//   - "zeta-hasse": shifted operator route to ζ(s)
//   - "zeta-gonum": gonum Hurwitz zeta at a = 1
//   - "digamma-hasse": shifted operator route to ψ(x)
//   - "digamma-gonum": gonum digamma
//
// Returns:
//   - *DefaultFactory: A new factory with default extractors registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:   make(map[string]func() coreExtractor),
		extractors: make(map[string]Extractor),
	}

	_ = f.Register(NameStieltjesLog, func() coreExtractor { return StieltjesLog{} })
	_ = f.Register(NameStieltjesEM, func() coreExtractor { return StieltjesEulerMaclaurin{} })
	_ = f.Register(NameZetaHasse, func() coreExtractor { return ZetaHasse{} })
	_ = f.Register(NameZetaGonum, func() coreExtractor { return ZetaGonum{} })
	_ = f.Register(NameDigammaHasse, func() coreExtractor { return DigammaHasse{} })
	_ = f.Register(NameDigammaGonum, func() coreExtractor { return DigammaGonum{} })

	return f
}

// Register adds a route under name, replacing any previous one.
//
// Parameters:
//   - name: The unique identifier of the route.
//   - creator: A function that creates the core route.
//
// Returns:
//   - error: An error if name is empty or creator is nil.
func (f *DefaultFactory) Register(name string, creator func() coreExtractor) error {
	if name == "" || creator == nil {
		return fmt.Errorf("constants: invalid registration for %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.extractors, name)
	return nil
}

// Get returns the Extractor registered under name.
//
// Parameters:
//   - name: The name of the extractor to retrieve.
//
// Returns:
//   - Extractor: The cached instance.
//   - error: An error if name is not registered.
func (f *DefaultFactory) Get(name string) (Extractor, error) {
	f.mu.RLock()
	if x, exists := f.extractors[name]; exists {
		f.mu.RUnlock()
		return x, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if x, exists := f.extractors[name]; exists {
		return x, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor: %s", name)
	}
	x := NewExtractor(creator())
	f.extractors[name] = x
	return x, nil
}

// MustGet is like Get but panics if the extractor is not registered.
func (f *DefaultFactory) MustGet(name string) Extractor {
	x, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("constants: required extractor not found: %s", name))
	}
	return x
}

// List returns a sorted list of all registered extractor names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByFamily returns the registered extractors of family, sorted by name.
func (f *DefaultFactory) ByFamily(family Family) []Extractor {
	var out []Extractor
	for _, name := range f.List() {
		x, err := f.Get(name)
		if err == nil && x.Family() == family {
			out = append(out, x)
		}
	}
	return out
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var _ ExtractorFactory = (*DefaultFactory)(nil)

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}
