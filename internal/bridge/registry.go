package bridge

import (
	"fmt"
	"sort"
	"strings"
)

// CommandSpec declares a command name together with its parameter contract.
// Validation checks presence and non-emptiness of required parameters only;
// all parameter values are strings.
type CommandSpec struct {
	Name     string
	Required []string
	Optional []string
}

// Registry maps command names to their specs. It is populated during
// startup and must not be mutated afterwards; with that contract it is safe
// for concurrent reads without locking.
type Registry struct {
	specs map[string]CommandSpec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]CommandSpec)}
}

// DefaultRegistry returns a registry pre-populated with the built-in
// commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CommandSpec{
		Name:     CmdListPods,
		Optional: []string{ParamNamespace},
	})
	r.Register(CommandSpec{
		Name:     CmdListDeployments,
		Optional: []string{ParamNamespace},
	})
	r.Register(CommandSpec{
		Name:     CmdGetPodLogs,
		Required: []string{ParamPodName},
		Optional: []string{ParamNamespace, ParamTailLines},
	})
	r.Register(CommandSpec{
		Name:     CmdNotifySlack,
		Required: []string{ParamChannel, ParamMessage},
	})
	r.Register(CommandSpec{
		Name: CmdClusterInfo,
	})
	return r
}

// Register adds a command spec. Registering the same name twice replaces
// the earlier spec; this only ever happens during startup.
func (r *Registry) Register(spec CommandSpec) {
	r.specs[spec.Name] = spec
}

// Resolve looks up the spec for a command name.
func (r *Registry) Resolve(name string) (CommandSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a command against its spec. It returns nil when every
// required parameter is present and non-empty, otherwise a ValidationError
// naming the missing parameters.
func (r *Registry) Validate(cmd Command, spec CommandSpec) *DispatchError {
	var missing []string
	for _, name := range spec.Required {
		if cmd.Params[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewDispatchError(ErrValidation,
			"missing required parameter(s) for %s: %s", cmd.Name, strings.Join(missing, ", "))
	}
	return nil
}

// String describes a spec for logging and help output.
func (s CommandSpec) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, p := range s.Required {
		fmt.Fprintf(&b, " <%s>", p)
	}
	for _, p := range s.Optional {
		fmt.Fprintf(&b, " [%s]", p)
	}
	return b.String()
}
