package trash

import "sort"

// TableSpec maps a logical table name to its physical table and the column
// used as the human-readable label in the trash view.
type TableSpec struct {
	Name        string // logical name, used in API payloads
	Table       string // physical table name
	LabelColumn string // column shown as the record's label
}

// Registry is the closed set of tables reachable through the soft-delete
// lifecycle. Lookup by logical name; unknown names are rejected.
type Registry struct {
	specs map[string]TableSpec
}

// NewRegistry builds a registry from the given specs.
func NewRegistry(specs ...TableSpec) *Registry {
	m := make(map[string]TableSpec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return &Registry{specs: m}
}

// DefaultRegistry returns the registry covering every soft-deletable table in
// the schema. This is the only place the mapping is defined.
func DefaultRegistry() *Registry {
	return NewRegistry(
		TableSpec{Name: "competitors", Table: "competitor_profiles", LabelColumn: "company_name"},
		TableSpec{Name: "campaigns", Table: "campaign_recommendations", LabelColumn: "title"},
		TableSpec{Name: "leads", Table: "crm_leads", LabelColumn: "name"},
		TableSpec{Name: "tasks", Table: "crm_tasks", LabelColumn: "title"},
		TableSpec{Name: "email_campaigns", Table: "email_campaigns", LabelColumn: "name"},
	)
}

// Lookup returns the spec for a logical name. ok is false for unregistered
// names.
func (r *Registry) Lookup(name string) (TableSpec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// All returns every registered spec, ordered by logical name for
// deterministic iteration.
func (r *Registry) All() []TableSpec {
	out := make([]TableSpec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
