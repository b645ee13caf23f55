// Package program ties the resolver, thread table, function registry, and
// module registry together into one running unit (SPEC_FULL.md §6),
// grounded on the teacher's database/database.go Database struct which
// bundles a parsed config with a live connection the rest of the tool
// drives commands through.
package program

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/qorelang/qcore/eval"
	"github.com/qorelang/qcore/logger"
	"github.com/qorelang/qcore/module"
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/thread"
	"github.com/qorelang/qcore/value"
)

// Options configures a Program at construction time, loaded from a YAML
// document the same way the teacher's ParseGeneratorConfigString decodes
// its generator config (database/database.go), swapped here for
// gopkg.in/yaml.v2 since that is the version already wired into go.mod.
type Options struct {
	ThreadCapacity int    `yaml:"thread_capacity"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultOptions mirrors what a zero-value YAML document would produce
// after defaulting.
func DefaultOptions() Options {
	return Options{ThreadCapacity: 16, LogLevel: "INFO"}
}

// ParseOptions decodes an Options document from YAML bytes.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing program options: %w", err)
	}
	return opts, nil
}

// Program is a single running qcore execution: its namespace/class
// resolver, thread table, function registry, module registry, and
// logger. It implements value.ProgramHandle so a value.ObjectPayload can
// carry a back-reference to the program that created it.
type Program struct {
	id       value.Identity
	opts     Options
	Resolver *resolver.Resolver
	Threads  *thread.Table
	Spawner  *thread.Spawner
	Funcs    *eval.Registry
	Modules  *module.Registry
	Log      *logger.Logger
}

// New constructs a Program from Options, wiring a thread table sized to
// opts.ThreadCapacity and a logger named "program" (a child of a freshly
// constructed root logger) at opts.LogLevel.
func New(opts Options) *Program {
	table := thread.NewTable(opts.ThreadCapacity)
	log := logger.Root().Child("program")
	log.SetLevel(parseLevel(opts.LogLevel))
	return &Program{
		id:       value.NewIdentity(),
		opts:     opts,
		Resolver: resolver.NewResolver(),
		Threads:  table,
		Spawner:  thread.NewSpawner(table),
		Funcs:    eval.NewRegistry(),
		Modules:  module.NewRegistry(),
		Log:      log,
	}
}

func parseLevel(s string) logger.Level {
	switch s {
	case "TRACE":
		return logger.Trace
	case "DEBUG":
		return logger.Debug
	case "WARN":
		return logger.Warn
	case "ERROR":
		return logger.Error
	case "FATAL":
		return logger.Fatal
	default:
		return logger.Info
	}
}

// ID implements value.ProgramHandle.
func (p *Program) ID() value.Identity { return p.id }

// Spawn starts a new thread slot bound to this Program, used for the
// program's own top-level thread. `background` threads do not go through
// Spawn: eval.Context.Spawner is p.Spawner, whose SpawnDetached takes
// slots from the same table.
func (p *Program) Spawn() (*thread.Slot, error) {
	return p.Threads.Spawn(p)
}

// NewContext builds an eval.Context for running code as thread slot on
// this program: its own Thread, the program's shared function Registry,
// root namespace, class index, spawner, and logger.
func (p *Program) NewContext(slot *thread.Slot) *eval.Context {
	classes := make(map[string]*resolver.Class)
	collectClasses(p.Resolver.Root, classes)
	return &eval.Context{
		Thread:   slot,
		Registry: p.Funcs,
		Root:     p.Resolver.Root,
		Program:  p,
		Classes:  classes,
		Spawner:  p.Spawner,
		Log:      p.Log,
	}
}

func collectClasses(ns *resolver.Namespace, out map[string]*resolver.Class) {
	if ns == nil {
		return
	}
	for name, class := range ns.Classes() {
		out[name] = class
	}
	for _, child := range ns.Children() {
		collectClasses(child, out)
	}
}

// LoadModule runs a module's handshake against this program's resolver
// root and registers it under name (spec §6).
func (p *Program) LoadModule(name string, m module.Handshake) error {
	return p.Modules.Load(name, m, p, p.Resolver.Root)
}

// Shutdown unloads every registered module, collecting the first error
// encountered but attempting every unload regardless (mirrors the
// teacher's best-effort resource cleanup in database/concurrent.go).
func (p *Program) Shutdown() error {
	var firstErr error
	for _, name := range p.Modules.Names() {
		if err := p.Modules.Unload(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
