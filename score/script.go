package score

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/boneklod/logger"
	"go.uber.org/zap"
)

var ErrScript = errors.New("score: script")

// Script is a compiled per-level score rule. The source reads bone_mass,
// time_remaining, required_mana and collected, and assigns mana and won.
//
//	mana = bone_mass * time_remaining * (collected > 10 ? 2 : 1)
//	won = mana >= required_mana
type Script struct {
	name     string
	compiled *tengo.Compiled
	log      *zap.Logger
}

func Compile(name, src string, log *zap.Logger) (*Script, error) {
	script := tengo.NewScript([]byte(src))
	_ = script.Add("bone_mass", 0.0)
	_ = script.Add("time_remaining", 0.0)
	_ = script.Add("required_mana", 0.0)
	_ = script.Add("collected", 0)
	_ = script.Add("mana", 0.0)
	_ = script.Add("won", false)

	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrScript, name, err)
	}
	return &Script{
		name:     name,
		compiled: compiled,
		log:      logger.OrNop(log).Named("score"),
	}, nil
}

func (s *Script) run(sc Score, collected int) (Result, error) {
	vars := map[string]any{
		"bone_mass":      sc.BoneMass,
		"time_remaining": sc.TimeRemaining,
		"required_mana":  sc.RequiredMana,
		"collected":      collected,
		"mana":           0.0,
		"won":            false,
	}
	for name, v := range vars {
		if err := s.compiled.Set(name, v); err != nil {
			return Result{}, fmt.Errorf("%w: set %s: %v", ErrScript, name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return Result{}, fmt.Errorf("%w: run %s: %v", ErrScript, s.name, err)
	}

	mana := s.compiled.Get("mana").Float()
	won := s.compiled.Get("won").Bool()
	return Result{
		Mana:      mana,
		Won:       won,
		Hint:      hintFor(sc.TimeRemaining, won),
		Collected: collected,
	}, nil
}

// Evaluate scores a finished session. A nil script, or one that fails at
// runtime, falls back to the default formula.
func Evaluate(script *Script, sc Score, collected int) Result {
	if script == nil || script.compiled == nil {
		return sc.Result(collected)
	}
	res, err := script.run(sc, collected)
	if err != nil {
		script.log.Warn("score script failed, using default formula", zap.String("script", script.name), zap.Error(err))
		return sc.Result(collected)
	}
	return res
}
