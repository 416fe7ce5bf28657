package treeconf

// Source names recorded in provenance for writers without a file or variable.
const (
	SourceDefault = "default"
	SourceObject  = "object"
)

// Provenance contains the last writer of each leaf in a working tree.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where a leaf's current value came from.
type FieldProvenance struct {
	KeyPath    string // Dotted path (e.g., "database.host")
	SourceName string // Source identifier (e.g., "env:APP_PORT", "file:app.yaml")
}

// Source returns the writer recorded for path.
func (p *Provenance) Source(path string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, f := range p.Fields {
		if f.KeyPath == path {
			return f.SourceName, true
		}
	}
	return "", false
}

// ByPath indexes the fields by key path.
func (p *Provenance) ByPath() map[string]string {
	out := make(map[string]string)
	if p == nil {
		return out
	}
	for _, f := range p.Fields {
		out[f.KeyPath] = f.SourceName
	}
	return out
}

// Provenance returns the last writer of every leaf, in tree order.
func (g *Generator) Provenance() *Provenance {
	prov := &Provenance{}
	g.config.Walk(func(path string, _ Value) {
		prov.Fields = append(prov.Fields, FieldProvenance{
			KeyPath:    path,
			SourceName: g.sources[path],
		})
	})
	return prov
}
