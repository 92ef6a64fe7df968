package flags

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/hedgehog/prefabs"
)

// DefaultRulesScript names the embedded targeting script.
const DefaultRulesScript = "flags.tengo"

// Rules evaluates a tengo targeting script for a distinct id. The script
// sees `distinct_id` (string) and `bucket` (0-99, stable per id) and may set
// `double_jump`, `speed_boost` and `skin`. Unset outputs keep their defaults.
type Rules struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
}

// LoadRules compiles src.
func LoadRules(src []byte) (*Rules, error) {
	script := tengo.NewScript(src)
	_ = script.Add("distinct_id", "")
	_ = script.Add("bucket", 0)
	_ = script.Add("double_jump", false)
	_ = script.Add("speed_boost", false)
	_ = script.Add("skin", string(SkinDefault))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("flags: compile rules: %w", err)
	}
	return &Rules{compiled: compiled}, nil
}

// Reload compiles src and swaps it in. On error the previous script stays.
func (r *Rules) Reload(src []byte) error {
	if r == nil {
		return fmt.Errorf("flags: reload rules: nil rules")
	}
	next, err := LoadRules(src)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.compiled = next.compiled
	r.mu.Unlock()
	return nil
}

// LoadDefaultRules compiles the targeting script from prefabs.
func LoadDefaultRules() (*Rules, error) {
	src, err := prefabs.LoadScript(DefaultRulesScript)
	if err != nil {
		return nil, fmt.Errorf("flags: load rules: %w", err)
	}
	return LoadRules(src)
}

// Bucket maps a distinct id onto 0-99.
func Bucket(distinctID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(distinctID))
	return int(h.Sum32() % 100)
}

// Evaluate runs the script for distinctID. On any error the defaults are
// returned alongside it.
func (r *Rules) Evaluate(ctx context.Context, distinctID string) (Config, error) {
	if r == nil {
		return Defaults(), nil
	}
	r.mu.Lock()
	if r.compiled == nil {
		r.mu.Unlock()
		return Defaults(), nil
	}
	run := r.compiled.Clone()
	r.mu.Unlock()

	if err := run.Set("distinct_id", distinctID); err != nil {
		return Defaults(), fmt.Errorf("flags: set distinct_id: %w", err)
	}
	if err := run.Set("bucket", Bucket(distinctID)); err != nil {
		return Defaults(), fmt.Errorf("flags: set bucket: %w", err)
	}
	if err := run.RunContext(ctx); err != nil {
		return Defaults(), fmt.Errorf("flags: run rules: %w", err)
	}

	cfg := Defaults()
	cfg.DoubleJumpEnabled = run.Get("double_jump").Bool()
	cfg.SpeedBoostEnabled = run.Get("speed_boost").Bool()
	cfg.Skin = ParseSkin(strings.TrimSpace(run.Get("skin").String()))
	return cfg, nil
}
