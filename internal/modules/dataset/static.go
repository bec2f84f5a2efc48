// README: Bundled static datasets embedded in the binary.
package dataset

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed static/*.yaml
var bundles embed.FS

// StaticProvider serves the bundled datasets. Bundles are parsed once at construction;
// every load returns an independent copy.
type StaticProvider struct {
	def      string
	datasets map[string]*Dataset
}

// NewStaticProvider parses every bundle and selects def as the default dataset.
func NewStaticProvider(def string) (*StaticProvider, error) {
	entries, err := bundles.ReadDir("static")
	if err != nil {
		return nil, eris.Wrap(err, "read bundled datasets")
	}
	p := &StaticProvider{def: strings.ToLower(def), datasets: make(map[string]*Dataset, len(entries))}
	for _, e := range entries {
		raw, err := bundles.ReadFile(path.Join("static", e.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "read bundle %s", e.Name())
		}
		plan, err := DecodePlanYAML(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "bundle %s", e.Name())
		}
		d, err := Normalize(plan)
		if err != nil {
			return nil, eris.Wrapf(err, "bundle %s", e.Name())
		}
		d.Title = d.City.Name + " - Sample Trip Plan"
		p.datasets[strings.TrimSuffix(e.Name(), ".yaml")] = d
	}
	if _, ok := p.datasets[p.def]; !ok {
		return nil, eris.Errorf("unknown static dataset %q (have %s)", def, strings.Join(p.Names(), ", "))
	}
	return p, nil
}

// LoadStatic returns the default bundled dataset.
func (p *StaticProvider) LoadStatic() *Dataset {
	return p.datasets[p.def].Clone()
}

// Named returns a bundled dataset by name.
func (p *StaticProvider) Named(name string) (*Dataset, bool) {
	d, ok := p.datasets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// Default names the bundle LoadStatic returns.
func (p *StaticProvider) Default() string { return p.def }

func (p *StaticProvider) Names() []string {
	names := make([]string, 0, len(p.datasets))
	for n := range p.datasets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
