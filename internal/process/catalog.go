package process

// StatusEntry declares one catalog status and the process types it applies
// to.
type StatusEntry struct {
	Name         string `json:"name"`
	ProcessTypes []Type `json:"process_types"`
}

// StatusCatalog is the configurable, ordered set of valid statuses. It only
// feeds dropdowns and form selects; nothing in the domain enforces
// membership, so records with retired statuses keep loading.
type StatusCatalog struct {
	Entries []StatusEntry `json:"status_config"`

	// LegacyList captures the pre-catalog file format, a bare list of
	// names applying to both process types.
	LegacyList []string `json:"status_list,omitempty"`
}

// DefaultStatusCatalog returns the catalog used when no configuration file
// exists yet.
func DefaultStatusCatalog() StatusCatalog {
	both := []Type{TypeImport, TypeExport}
	return StatusCatalog{Entries: []StatusEntry{
		{Name: "Novo Processo", ProcessTypes: both},
		{Name: "Em andamento", ProcessTypes: both},
		{Name: "Pendente", ProcessTypes: both},
		{Name: "Concluído", ProcessTypes: both},
		{Name: "Navio em Santos", ProcessTypes: []Type{TypeImport}},
		{Name: "Booking confirmado", ProcessTypes: []Type{TypeExport}},
	}}
}

// Normalize migrates the legacy bare-list format into entries applying to
// both process types.
func (c *StatusCatalog) Normalize() {
	if len(c.Entries) > 0 || len(c.LegacyList) == 0 {
		return
	}
	both := []Type{TypeImport, TypeExport}
	for _, name := range c.LegacyList {
		c.Entries = append(c.Entries, StatusEntry{Name: name, ProcessTypes: both})
	}
	c.LegacyList = nil
}

// StatusesFor lists the catalog names valid for one process type, in
// catalog order.
func (c StatusCatalog) StatusesFor(t Type) []string {
	var out []string
	for _, entry := range c.Entries {
		for _, pt := range entry.ProcessTypes {
			if pt == t {
				out = append(out, entry.Name)
				break
			}
		}
	}
	return out
}
