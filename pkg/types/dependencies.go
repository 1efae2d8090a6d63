package types

// Dependency is one entry of a manifest's dependency mapping
type Dependency struct {
	Name    string
	Version string
}

// Dependencies is an insertion-ordered dependency mapping. Setting an
// existing name keeps its position; new names are appended.
type Dependencies struct {
	entries []Dependency
	index   map[string]int
}

// NewDependencies builds a mapping from pairs, later pairs overwriting earlier ones
func NewDependencies(pairs ...Dependency) *Dependencies {
	d := &Dependencies{index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		d.Set(p.Name, p.Version)
	}
	return d
}

// Len returns the number of entries
func (d *Dependencies) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Get returns the version range for name
func (d *Dependencies) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.entries[i].Version, true
}

// Has reports whether name is present
func (d *Dependencies) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Set adds or replaces the version range for name
func (d *Dependencies) Set(name, version string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.entries[i].Version = version
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, Dependency{Name: name, Version: version})
}

// Delete removes name and reports whether it was present
func (d *Dependencies) Delete(name string) bool {
	if d == nil {
		return false
	}
	i, ok := d.index[name]
	if !ok {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, name)
	for j := i; j < len(d.entries); j++ {
		d.index[d.entries[j].Name] = j
	}
	return true
}

// Merge sets every entry of other, in other's order
func (d *Dependencies) Merge(other *Dependencies) {
	for _, dep := range other.List() {
		d.Set(dep.Name, dep.Version)
	}
}

// List returns a copy of the entries in order
func (d *Dependencies) List() []Dependency {
	if d == nil {
		return nil
	}
	out := make([]Dependency, len(d.entries))
	copy(out, d.entries)
	return out
}

// Names returns the dependency names in order
func (d *Dependencies) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.entries))
	for i, dep := range d.entries {
		names[i] = dep.Name
	}
	return names
}

// Map returns the entries as a plain map
func (d *Dependencies) Map() map[string]string {
	m := make(map[string]string, d.Len())
	for _, dep := range d.List() {
		m[dep.Name] = dep.Version
	}
	return m
}

// Clone returns an independent copy
func (d *Dependencies) Clone() *Dependencies {
	return NewDependencies(d.List()...)
}
