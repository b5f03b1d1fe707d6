package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// RegisterModules registers the engine table into L:
//
//	engine.roll(expr)        -> total, breakdown
//	engine.check(mod[, adv]) -> total, natural, "success"|"failure"|nil
//	engine.tier(name, total) -> tier name
//	engine.log.{debug,info,warn}(msg)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"roll":  m.luaRoll,
		"check": m.luaCheck,
		"tier":  m.luaTier,
	})

	log := L.NewTable()
	L.SetFuncs(log, map[string]lua.LGFunction{
		"debug": m.luaLog(zap.DebugLevel),
		"info":  m.luaLog(zap.InfoLevel),
		"warn":  m.luaLog(zap.WarnLevel),
	})
	L.SetField(engine, "log", log)

	L.SetGlobal("engine", engine)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	res, err := m.roller.RollExpr(expr)
	if err != nil {
		L.RaiseError("engine.roll: %s", err.Error())
		return 0
	}
	if m.current != nil {
		m.current.Rolls = append(m.current.Rolls, res)
	}
	L.Push(lua.LNumber(res.Total()))
	L.Push(lua.LString(res.String()))
	return 2
}

func (m *Manager) luaCheck(L *lua.LState) int {
	mod := L.CheckInt(1)
	adv, err := check.ParseAdvantage(L.OptString(2, ""))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	out := check.Resolve(check.Input{Label: "macro", AbilityMod: mod}, adv, m.roller.Source())
	if m.current != nil {
		m.current.Checks = append(m.current.Checks, out)
	}
	L.Push(lua.LNumber(out.Total))
	L.Push(lua.LNumber(out.Primary))
	switch {
	case out.CriticalSuccess:
		L.Push(lua.LString("success"))
	case out.CriticalFailure:
		L.Push(lua.LString("failure"))
	default:
		L.Push(lua.LNil)
	}
	return 3
}

func (m *Manager) luaTier(L *lua.LState) int {
	name := L.CheckString(1)
	total := L.CheckInt(2)
	t, ok := m.tables[name]
	if !ok {
		L.ArgError(1, "unknown tier table "+name)
		return 0
	}
	L.Push(lua.LString(t.For(total).Name))
	return 1
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		m.logger.Log(level, L.CheckString(1), zap.String("source", "macro"))
		return 0
	}
}
