// Package profile loads named 3964R/3964 configuration bundles —
// priority, checksum mode, timing constants, retry caps — from .ini
// files, using the same ini.Load / Sections / per-key
// section.Key(...) idiom as a typical EDS-style object-dictionary
// parser, applied here to protocol profiles for a specific peer
// device family instead of object-dictionary entries.
package profile

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"go3964r"
)

// Load reads every section of an .ini file (or byte source ini.Load
// accepts) as a named profile and returns them keyed by section name.
func Load(source any) (map[string]go3964r.Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	profiles := make(map[string]go3964r.Config)
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		cfg, err := fromSection(section)
		if err != nil {
			return nil, fmt.Errorf("profile: section %q: %w", section.Name(), err)
		}
		profiles[section.Name()] = cfg
	}
	return profiles, nil
}

func fromSection(section *ini.Section) (go3964r.Config, error) {
	cfg := go3964r.Default()

	if section.HasKey("Priority") {
		switch section.Key("Priority").String() {
		case "HIGH":
			cfg.Priority = go3964r.High
		case "LOW":
			cfg.Priority = go3964r.Low
		default:
			return cfg, fmt.Errorf("priority must be HIGH or LOW, got %q", section.Key("Priority").String())
		}
	}

	if section.HasKey("Mode") {
		switch section.Key("Mode").String() {
		case "WITH_BCC":
			cfg.Mode = go3964r.WithBCC
		case "WITHOUT_BCC":
			cfg.Mode = go3964r.WithoutBCC
		default:
			return cfg, fmt.Errorf("mode must be WITH_BCC or WITHOUT_BCC, got %q", section.Key("Mode").String())
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"QVZ", &cfg.QVZ},
		{"ZVZ", &cfg.ZVZ},
		{"BWZ", &cfg.BWZ},
		{"CWZ", &cfg.CWZ},
		{"SPZ", &cfg.SPZ},
		{"SLP", &cfg.SLP},
	}
	for _, d := range durations {
		if !section.HasKey(d.key) {
			continue
		}
		seconds, err := section.Key(d.key).Float64()
		if err != nil {
			return cfg, fmt.Errorf("%s must be a number of seconds: %w", d.key, err)
		}
		*d.dst = time.Duration(seconds * float64(time.Second))
	}

	if section.HasKey("MaxSend") {
		n, err := section.Key("MaxSend").Int()
		if err != nil {
			return cfg, fmt.Errorf("MaxSend must be an integer: %w", err)
		}
		cfg.MaxSend = n
	}
	if section.HasKey("MaxConnect") {
		n, err := section.Key("MaxConnect").Int()
		if err != nil {
			return cfg, fmt.Errorf("MaxConnect must be an integer: %w", err)
		}
		cfg.MaxConnect = n
	}

	return cfg, nil
}
