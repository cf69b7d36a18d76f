package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/nearset"
	"github.com/hupe1980/nearset/probe"
	"gopkg.in/yaml.v3"
)

// Universe is the YAML form of a perceptual system over feature rows.
//
//	validate: true
//	parallelism: 4
//	probes:
//	  - {name: red, min: 0, max: 255, column: 0}
//	  - {name: green, min: 0, max: 255, column: 1}
//	objects:
//	  - [255, 0]
//	  - ~          # empty slot
//	  - [250, 10]
type Universe struct {
	Validate    bool        `yaml:"validate"`
	Parallelism int         `yaml:"parallelism"`
	CacheSize   int         `yaml:"cache_size"`
	Probes      []ProbeSpec `yaml:"probes"`
	Objects     [][]float64 `yaml:"objects"`
}

// ProbeSpec declares a probe that reads one column of a row.
type ProbeSpec struct {
	Name   string  `yaml:"name"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Column int     `yaml:"column"`
}

// LoadUniverse reads and validates a universe file.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	return ParseUniverse(data)
}

// ParseUniverse decodes and validates universe YAML.
func ParseUniverse(data []byte) (*Universe, error) {
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if len(u.Probes) == 0 {
		return nil, errors.New("universe declares no probes")
	}
	for i, p := range u.Probes {
		if p.Column < 0 {
			return nil, fmt.Errorf("probe %d (%s): negative column %d", i, p.Name, p.Column)
		}
	}
	for i, row := range u.Objects {
		if row == nil {
			continue
		}
		for _, p := range u.Probes {
			if p.Column >= len(row) {
				return nil, fmt.Errorf("object %d: probe %s reads column %d of a row with %d values", i, p.Name, p.Column, len(row))
			}
		}
	}
	return &u, nil
}

// System builds the perceptual system described by u.
func (u *Universe) System(optFns ...nearset.Option) (*nearset.System[[]float64], error) {
	opts := append([]nearset.Option{
		nearset.WithRangeValidation(u.Validate),
		nearset.WithParallelism(u.Parallelism),
		nearset.WithDescriptionCache(u.CacheSize),
		nearset.WithSize(len(u.Objects)),
	}, optFns...)
	sys := nearset.New[[]float64](opts...)

	for _, p := range u.Probes {
		col := p.Column
		f := probe.New(p.Name, p.Min, p.Max, func(row []float64) float64 { return row[col] })
		if _, err := sys.AddProbeFunc(f); err != nil {
			return nil, err
		}
	}
	for i, row := range u.Objects {
		if row == nil {
			continue
		}
		if err := sys.Set(i, row); err != nil {
			return nil, err
		}
	}
	return sys, nil
}
