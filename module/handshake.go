// Package module implements the foreign-binary-module handshake protocol
// (spec §6): API-version compatibility gating, namespace/class injection
// into a program's resolver, and the per-object private-data convention
// modules use to attach their own payload to a qcore Object.
package module

import (
	"github.com/kballard/go-shellquote"

	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/value"
)

// APIVersion is the Major.Minor contract a module was built against.
// Compatible with a running core's CoreVersion when majors match and the
// module doesn't require a newer minor than the core provides (spec §6:
// "API version compatibility gate").
type APIVersion struct {
	Major int
	Minor int
}

// CoreVersion is this qcore build's module API surface.
var CoreVersion = APIVersion{Major: 1, Minor: 0}

// Compatible reports whether a module requiring `required` can load
// against a core advertising `core`.
func Compatible(core, required APIVersion) bool {
	return core.Major == required.Major && core.Minor >= required.Minor
}

// PrivateDataKey namespaces a module's private-data slot on an Object
// (value.ObjectPayload.SetPrivateData/PrivateData), conventionally the
// module's own name, so two modules attaching data to the same object
// never collide.
type PrivateDataKey string

// Handshake is the capability-negotiation contract a foreign binary
// module implements to attach itself to a running qcore program. Init
// runs once at load time; NamespaceInit lets the module declare classes/
// constants/functions into the program's root namespace; ParseCommand
// handles a `%requires`-style directive line the module recognizes;
// Delete runs at program teardown, mirroring the private-data protocol's
// "released on destructor" rule at the module level.
type Handshake interface {
	APIVersion() APIVersion
	Init(program value.ProgramHandle) error
	NamespaceInit(root *resolver.Namespace) error
	ParseCommand(line string) ([]string, error)
	Delete() error
}

// SplitCommand tokenizes a module command line with shell-style quoting
// rules (spec §6's `ParseCommand`), e.g. `%requires foo 'bar baz'` ->
// ["%requires", "foo", "bar baz"].
func SplitCommand(line string) ([]string, error) {
	return shellquote.Split(line)
}

// Registry tracks loaded modules by name, rejecting a second load under
// the same name and an incompatible APIVersion up front.
type Registry struct {
	modules map[string]Handshake
}

// NewRegistry constructs an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Handshake)}
}

// Load runs a module's handshake (version check, Init, NamespaceInit) and
// registers it under name.
func (r *Registry) Load(name string, m Handshake, program value.ProgramHandle, root *resolver.Namespace) error {
	if _, exists := r.modules[name]; exists {
		return &LoadError{Name: name, Reason: "already loaded"}
	}
	if !Compatible(CoreVersion, m.APIVersion()) {
		return &LoadError{Name: name, Reason: "incompatible API version"}
	}
	if err := m.Init(program); err != nil {
		return &LoadError{Name: name, Reason: err.Error()}
	}
	if err := m.NamespaceInit(root); err != nil {
		return &LoadError{Name: name, Reason: err.Error()}
	}
	r.modules[name] = m
	return nil
}

// Unload runs a loaded module's Delete and removes it from the registry.
func (r *Registry) Unload(name string) error {
	m, ok := r.modules[name]
	if !ok {
		return &LoadError{Name: name, Reason: "not loaded"}
	}
	delete(r.modules, name)
	return m.Delete()
}

// Get returns a loaded module by name.
func (r *Registry) Get(name string) (Handshake, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Names returns every currently loaded module name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}

// LoadError reports why a module failed to load or unload.
type LoadError struct {
	Name   string
	Reason string
}

func (e *LoadError) Error() string { return "module " + e.Name + ": " + e.Reason }
