package priority

import (
	"fmt"
	"sort"
)

// registryEntry pairs a priority function with the migration mode its
// scheduling class implies.
type registryEntry struct {
	fn                Func
	restrictMigration bool
}

// registry maps the global scheduling class identifiers onto priority
// functions. G-* allows migration, GR-* restricts jobs to the processor that
// first ran them, and G-NP_* disables preemption of started jobs.
var registry = map[string]registryEntry{
	"G-EDF": {EDF, false},
	"G-LLF": {LLF, false},
	"G-RM":  {RM, false},
	"G-DM":  {DM, false},

	"GR-EDF": {EDF, true},
	"GR-LLF": {LLF, true},
	"GR-RM":  {RM, true},
	"GR-DM":  {DM, true},

	"G-NP_EDF": {NPEDF, false},
	"G-NP_LLF": {NPLLF, false},
	"G-NP_RM":  {NPRM, false},
	"G-NP_DM":  {NPDM, false},
}

// Lookup resolves a scheduling class identifier (case-exact) to its priority
// function and restrict-migration flag.
func Lookup(name string) (Func, bool, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, false, fmt.Errorf("priority %q not supported", name)
	}
	return entry.fn, entry.restrictMigration, nil
}

// Names lists the registered scheduling class identifiers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
