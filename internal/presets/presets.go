// Package presets provides named schedule templates for the cron CLI.
// Built-in presets cover the common cases; users add their own in
// presets.yaml inside the data dir.
package presets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harborseal/harborseal/internal/schedule"
)

// Preset is a named schedule template. Applying it patches a Draft; it
// never commits on its own, so a preset can be tweaked before use.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Mode  string `yaml:"mode"` // interval | daysAndTime | oneTime
	Every string `yaml:"every,omitempty"`
	Unit  string `yaml:"unit,omitempty"`
	Cron  string `yaml:"cron,omitempty"`
	TZ    string `yaml:"tz,omitempty"`

	// Message is an optional default payload for jobs created from the
	// preset.
	Message string `yaml:"message,omitempty"`
}

// Apply folds the preset into a draft.
func (p Preset) Apply(d schedule.Draft) schedule.Draft {
	patch := schedule.DraftPatch{}
	switch schedule.DraftMode(p.Mode) {
	case schedule.ModeInterval:
		mode := schedule.ModeInterval
		patch.Mode = &mode
		if p.Every != "" {
			patch.EveryAmount = &p.Every
		}
		if p.Unit != "" {
			u := schedule.Unit(p.Unit)
			patch.EveryUnit = &u
		}
	case schedule.ModeDaysAndTime:
		mode := schedule.ModeDaysAndTime
		patch.Mode = &mode
		if p.Cron != "" {
			patch.CronExpr = &p.Cron
		}
		if p.TZ != "" {
			patch.TZ = &p.TZ
		}
	}
	return d.Apply(patch)
}

// Builtin returns the presets that ship with the binary.
func Builtin() []Preset {
	return []Preset{
		{
			Name:        "hourly-check",
			Description: "Run once an hour",
			Mode:        string(schedule.ModeInterval),
			Every:       "1",
			Unit:        string(schedule.UnitHours),
		},
		{
			Name:        "30-min-pulse",
			Description: "Run every 30 minutes",
			Mode:        string(schedule.ModeInterval),
			Every:       "30",
			Unit:        string(schedule.UnitMinutes),
		},
		{
			Name:        "daily-summary",
			Description: "Run every day at 9:00",
			Mode:        string(schedule.ModeDaysAndTime),
			Cron:        "0 9 * * *",
		},
	}
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadUser reads user presets from path. A missing file is not an
// error; it just means no user presets.
func LoadUser(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read presets: %w", err)
	}
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	return f.Presets, nil
}

// All merges built-in and user presets. A user preset with the same
// name as a built-in replaces it.
func All(userPath string) ([]Preset, error) {
	user, err := LoadUser(userPath)
	if err != nil {
		return nil, err
	}
	byName := map[string]int{}
	out := Builtin()
	for i, p := range out {
		byName[p.Name] = i
	}
	for _, p := range user {
		if i, ok := byName[p.Name]; ok {
			out[i] = p
			continue
		}
		byName[p.Name] = len(out)
		out = append(out, p)
	}
	return out, nil
}

// Find looks up a preset by name in the merged set.
func Find(userPath, name string) (Preset, error) {
	all, err := All(userPath)
	if err != nil {
		return Preset{}, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}
