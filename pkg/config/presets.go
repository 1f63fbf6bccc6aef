package config

import (
	"sort"
	"time"
)

// FramePreset returns the frame configuration for a named preset.
// If the name is not recognized, the "smooth" preset is returned.
func FramePreset(name string) FrameConfig {
	if p, ok := framePresets[name]; ok {
		return FrameConfig{TickInterval: Duration{p}}
	}
	return FrameConfig{TickInterval: Duration{framePresets["smooth"]}}
}

// FramePresetNames lists the known presets, sorted.
func FramePresetNames() []string {
	names := make([]string, 0, len(framePresets))
	for n := range framePresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// framePresets maps preset names to tick intervals:
//
//   - smooth: ~60 frames per second
//   - balanced: ~30 frames per second
//   - lowpower: 10 frames per second, for slow terminals and ssh
var framePresets = map[string]time.Duration{
	"smooth":   16 * time.Millisecond,
	"balanced": 33 * time.Millisecond,
	"lowpower": 100 * time.Millisecond,
}
