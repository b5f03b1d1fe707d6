package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/game/tier"
)

// ErrUnknownMacro is returned when no loaded macro has the requested name.
var ErrUnknownMacro = errors.New("unknown macro")

// Result is what one macro call produced.
type Result struct {
	Macro string
	// Value is the macro's first return value rendered as text; empty for nil.
	Value string
	// Rolls are the dice expressions the macro rolled, in order.
	Rolls []dice.RollResult
	// Checks are the d20 checks the macro resolved, in order.
	Checks []check.Outcome
}

// Manager owns one sandboxed LState holding every loaded macro.
//
// Calls are serialised; an LState is single-threaded.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	roller    *dice.Roller
	logger    *zap.Logger
	tables    map[string]*tier.Table
	instLimit int
	macros    []string

	// current collects engine.* activity for the call in progress.
	current *Result
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with engine.* registered.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	m := &Manager{
		L:      NewSandboxedState(),
		roller: roller,
		logger: logger,
		tables: make(map[string]*tier.Table),
	}
	m.RegisterModules(m.L)
	return m
}

// RegisterTable makes t available to engine.tier under name.
func (m *Manager) RegisterTable(name string, t *tier.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = t
}

// Load executes every *.lua file in dir in lexicographic order. Every global
// Lua function defined afterwards is callable as a macro.
//
// Precondition: dir must be a readable directory; instLimit >= 0.
// Postcondition: Returns an error on the first file that fails to load.
func (m *Manager) Load(ctx context.Context, dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading macro dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.instLimit = instLimit
	for _, path := range files {
		restore := Limit(ctx, m.L, instLimit)
		err := m.L.DoFile(path)
		restore()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.macros = m.scanMacros()
	m.logger.Info("scripting: macros loaded",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Strings("macros", m.macros),
	)
	return nil
}

// scanMacros lists the global functions written in Lua.
func (m *Manager) scanMacros() []string {
	var names []string
	m.L.G.Global.ForEach(func(k, v lua.LValue) {
		fn, ok := v.(*lua.LFunction)
		if !ok || fn.IsG {
			return
		}
		if name, ok := k.(lua.LString); ok {
			names = append(names, string(name))
		}
	})
	sort.Strings(names)
	return names
}

// Macros returns the callable macro names, sorted.
func (m *Manager) Macros() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.macros...)
}

// Call invokes macro name with integer args.
//
// Postcondition: Returns the macro's result, ErrUnknownMacro, or the Lua
// runtime error (also logged at warn).
func (m *Manager) Call(ctx context.Context, name string, args ...int) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn, ok := m.L.GetGlobal(name).(*lua.LFunction)
	if !ok || fn.IsG {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMacro, name)
	}

	res := &Result{Macro: name}
	m.current = res
	defer func() { m.current = nil }()

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LNumber(a)
	}

	restore := Limit(ctx, m.L, m.instLimit)
	err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...)
	restore()
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("macro", name),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("scripting: macro %q: %w", name, err)
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	res.Value = render(ret)
	return *res, nil
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}

func render(v lua.LValue) string {
	switch v := v.(type) {
	case *lua.LNilType:
		return ""
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return v.String()
	}
}
