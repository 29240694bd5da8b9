package operators

import (
	"fmt"
	"sort"
)

var registry = map[string]func() MutationOperator{
	"uniform": func() MutationOperator { return NewUniformMutation(true) },
	"twors":   func() MutationOperator { return NewTworsMutation() },
	"reverse": func() MutationOperator { return NewReverseSequenceMutation() },
}

// Register adds a mutation constructor to the registry.
func Register(name string, constructor func() MutationOperator) {
	registry[name] = constructor
}

// Get returns a mutation operator by name.
func Get(name string) (MutationOperator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown mutation: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered mutation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
