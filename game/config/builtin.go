package config

import (
	"sort"

	"github.com/wricardo/tilemerge/game/engine"
)

// builtins are the presets available without a config directory
var builtins = map[string]func() *engine.GameConfig{
	"classic": engine.DefaultGameConfig,
	"small": func() *engine.GameConfig {
		c := engine.DefaultGameConfig()
		c.Name = "small"
		c.Description = "Cramped 3x3 board"
		c.Size = 3
		return c
	},
	"large": func() *engine.GameConfig {
		c := engine.DefaultGameConfig()
		c.Name = "large"
		c.Description = "Roomy 6x6 board"
		c.Size = 6
		return c
	},
}

func builtinConfig(name string) (*engine.GameConfig, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return build(), nil
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
