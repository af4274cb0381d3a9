package httpclient

// TargetRegistry holds the named targets of a configuration. It is
// read-only after construction.
type TargetRegistry struct {
	targets map[string]TargetConfig
}

// NewTargetRegistry validates and registers every target definition.
func NewTargetRegistry(defs map[string]TargetConfig) (*TargetRegistry, error) {
	r := &TargetRegistry{targets: make(map[string]TargetConfig, len(defs))}
	for _, name := range sortedKeys(defs) {
		t := defs[name]
		if err := t.Validate(name); err != nil {
			return nil, NewInvalidConfigError(err)
		}
		r.targets[name] = t
	}
	return r, nil
}

// Resolve returns the definition registered under name.
func (r *TargetRegistry) Resolve(name string) (TargetConfig, error) {
	t, ok := r.targets[name]
	if !ok {
		return TargetConfig{}, NewUnknownTargetError(name)
	}
	return t, nil
}

// Names returns the registered target names, sorted.
func (r *TargetRegistry) Names() []string {
	return sortedKeys(r.targets)
}
