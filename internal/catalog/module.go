package catalog

import "fmt"

// ModuleID identifies a subject area of the exam.
type ModuleID string

const (
	ModuleQuantitative ModuleID = "quantitative-reasoning"
	ModuleReading      ModuleID = "critical-reading"
	ModuleCitizenship  ModuleID = "citizenship"
	ModuleLanguageB    ModuleID = "language-b"
	ModuleWriting      ModuleID = "written-communication"
)

// DefaultPerItemSeconds is the time budget granted per question.
const DefaultPerItemSeconds = 120

// Module describes one catalog entry and its session defaults.
type Module struct {
	ID   ModuleID
	Name string

	// DefaultItems is the nominal question count shown on the intro screen
	// before a pool has been sampled.
	DefaultItems int

	PerItemSeconds int
}

// DefaultTimeLimitSecs is the static intro-screen time estimate.
func (m Module) DefaultTimeLimitSecs() int {
	return m.DefaultItems * m.PerItemSeconds
}

var modules = []Module{
	{ID: ModuleQuantitative, Name: "Quantitative Reasoning", DefaultItems: 10, PerItemSeconds: DefaultPerItemSeconds},
	{ID: ModuleReading, Name: "Critical Reading", DefaultItems: 10, PerItemSeconds: DefaultPerItemSeconds},
	{ID: ModuleCitizenship, Name: "Citizenship", DefaultItems: 10, PerItemSeconds: DefaultPerItemSeconds},
	{ID: ModuleLanguageB, Name: "Language B", DefaultItems: 10, PerItemSeconds: DefaultPerItemSeconds},
	{ID: ModuleWriting, Name: "Written Communication", DefaultItems: 10, PerItemSeconds: DefaultPerItemSeconds},
}

// All returns the catalog in full-simulation order.
func All() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// Order returns the module IDs in full-simulation order.
func Order() []ModuleID {
	ids := make([]ModuleID, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	return ids
}

// Get returns the module with the given ID.
func Get(id ModuleID) (Module, error) {
	for _, m := range modules {
		if m.ID == id {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("unknown module: %q", id)
}

// Valid reports whether id names a catalog module.
func Valid(id ModuleID) bool {
	_, err := Get(id)
	return err == nil
}

// Index returns the position of id in full-simulation order, or -1.
func Index(id ModuleID) int {
	for i, m := range modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the module following id in full-simulation order.
// ok is false when id is the last module or unknown.
func Next(id ModuleID) (next ModuleID, ok bool) {
	i := Index(id)
	if i < 0 || i+1 >= len(modules) {
		return "", false
	}
	return modules[i+1].ID, true
}

// DisplayName returns the human-readable module name.
func DisplayName(id ModuleID) string {
	if m, err := Get(id); err == nil {
		return m.Name
	}
	return string(id)
}
