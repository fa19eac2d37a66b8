// Package codes tokenizes freeform play-annotation strings and resolves
// them against a point-value legend.
package codes

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Rubric names for the built-in legends.
const (
	RubricStandard = "standard"
	RubricExtended = "extended"
)

// Rule resolves one code to a point value. PerUnit rules match tokens of the
// form CODE+n and scale Points by the numeric suffix (so C at 0.5 per unit
// makes "C+12" worth 6).
type Rule struct {
	Points  float64 `koanf:"points"`
	PerUnit bool    `koanf:"per_unit"`
}

// Legend is the versioned point table the interpreter matches against.
// Two rubric generations exist in the film sheets, so the legend travels as
// explicit configuration rather than a hardcoded table.
type Legend struct {
	Version      string          `koanf:"version"`
	Rules        map[string]Rule `koanf:"rules"`
	KeyPlayCodes []string        `koanf:"key_play_codes"`
}

// keyPlayDefaults are the positive-impact codes that count as key plays
// when a sheet carries no key_plays column.
var keyPlayDefaults = []string{"TD", "SC", "ER", "GR", "GB", "P", "FD", "E"}

// Standard returns the current rubric: whole-point parameterized codes and
// the softer discipline penalties.
func Standard() Legend {
	return Legend{
		Version: RubricStandard,
		Rules: map[string]Rule{
			"TD":  {Points: 10},
			"E":   {Points: 3},
			"ER":  {Points: 5},
			"GR":  {Points: 2},
			"GB":  {Points: 2},
			"P":   {Points: 5},
			"FD":  {Points: 2},
			"SC":  {Points: 5},
			"MA":  {Points: -5},
			"DP":  {Points: -3},
			"H":   {Points: 0},
			"BR":  {Points: 0},
			"L":   {Points: -1},
			"NFS": {Points: -1},
			"W":   {Points: -2},
			"C":   {Points: 1, PerUnit: true},
			"R":   {Points: 1, PerUnit: true},
		},
		KeyPlayCodes: keyPlayDefaults,
	}
}

// Extended returns the older rubric: half-point yardage codes and the
// heavier swing values (TD 15, DP -15).
func Extended() Legend {
	return Legend{
		Version: RubricExtended,
		Rules: map[string]Rule{
			"TD":  {Points: 15},
			"E":   {Points: 5},
			"ER":  {Points: 7},
			"GR":  {Points: 2},
			"GB":  {Points: 2},
			"P":   {Points: 10},
			"FD":  {Points: 5},
			"SC":  {Points: 10},
			"MA":  {Points: -10},
			"DP":  {Points: -15},
			"H":   {Points: 0},
			"BR":  {Points: -2},
			"L":   {Points: -2},
			"NFS": {Points: -3},
			"W":   {Points: -1},
			"C":   {Points: 0.5, PerUnit: true},
			"R":   {Points: 0.5, PerUnit: true},
		},
		KeyPlayCodes: keyPlayDefaults,
	}
}

// ByName resolves a built-in rubric by name.
func ByName(name string) (Legend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RubricStandard:
		return Standard(), nil
	case RubricExtended:
		return Extended(), nil
	default:
		return Legend{}, fmt.Errorf("rubric %q: %w", name, ErrUnknownRubric)
	}
}

// LoadLegend reads a legend from a YAML file. Codes are case-normalized on
// load; missing key_play_codes fall back to the defaults.
func LoadLegend(path string) (Legend, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Legend{}, fmt.Errorf("%w: %w", ErrLoadLegend, err)
	}

	var l Legend
	if err := k.UnmarshalWithConf("", &l, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Legend{}, fmt.Errorf("%w: %w", ErrLoadLegend, err)
	}
	if len(l.Rules) == 0 {
		return Legend{}, fmt.Errorf("%w: no rules", ErrInvalidLegend)
	}

	normalized := make(map[string]Rule, len(l.Rules))
	for code, rule := range l.Rules {
		normalized[strings.ToUpper(strings.TrimSpace(code))] = rule
	}
	l.Rules = normalized
	if len(l.KeyPlayCodes) == 0 {
		l.KeyPlayCodes = keyPlayDefaults
	}
	for i, code := range l.KeyPlayCodes {
		l.KeyPlayCodes[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	return l, nil
}

// rule looks up a canonical (upper-case) code.
func (l Legend) rule(code string) (Rule, bool) {
	r, ok := l.Rules[code]
	return r, ok
}

// isKeyPlay reports whether a canonical code counts toward key plays.
func (l Legend) isKeyPlay(code string) bool {
	for _, k := range l.KeyPlayCodes {
		if k == code {
			return true
		}
	}
	return false
}
