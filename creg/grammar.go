// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role describes what a recognized macro defines.
type Role uint8

const (
	Irrelevant Role = iota
	Offset          // register byte offset
	Shift           // bit-field LSB position
	Mask            // bit-field mask, register-relative
	Width           // bit-field width in bits
)

var roleNames = [...]string{
	Irrelevant: "irrelevant",
	Offset:     "offset",
	Shift:      "shift",
	Mask:       "mask",
	Width:      "width",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", r)
}

// ParseRole returns the role named s (see Role.String).
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if r != int(Irrelevant) && name == s {
			return Role(r), nil
		}
	}
	return Irrelevant, fmt.Errorf("unknown role %q", s)
}

// Suffix maps a macro name suffix to the role of the macro.
type Suffix struct {
	Text string
	Role Role
}

// Grammar is the naming convention of a vendor register header. A macro
// named Base+Suffix.Text has the role Suffix.Role. A field belongs to the
// register whose name is the longest prefix of the field base name followed
// by Separator.
type Grammar struct {
	Define    string   // preprocessor directive introducing a definition
	Separator string   // separates the register name from the field name
	Suffixes  []Suffix // role suffixes, matched longest first
}

// DefaultGrammar returns the <NAME>_OFFSET, <NAME>_SHIFT, <NAME>_MASK
// convention.
func DefaultGrammar() *Grammar {
	return &Grammar{
		Define:    "define",
		Separator: "_",
		Suffixes: []Suffix{
			{"_OFFSET", Offset},
			{"_SHIFT", Shift},
			{"_MASK", Mask},
		},
	}
}

// Classify returns the role of the macro name and its base name (the name
// without the role suffix). It returns Irrelevant if no suffix matches or
// the base name would be empty.
func (g *Grammar) Classify(name string) (role Role, base string) {
	n := 0
	for _, s := range g.Suffixes {
		if len(s.Text) > n && len(name) > len(s.Text) && strings.HasSuffix(name, s.Text) {
			n = len(s.Text)
			role = s.Role
		}
	}
	if n == 0 {
		return Irrelevant, ""
	}
	return role, name[:len(name)-n]
}

// Owner returns the longest name in regs that is equal to base or is a
// prefix of base followed by the separator. The field name is what remains
// of base after removing the owner and the separator (base itself if equal
// to the owner).
func (g *Grammar) Owner(base string, regs map[string]bool) (owner, field string, ok bool) {
	sep := g.Separator
	for end := len(base); end > 0; {
		if regs[base[:end]] {
			if end == len(base) {
				return base, base, true
			}
			if field = base[end+len(sep):]; field == "" {
				break
			}
			return base[:end], field, true
		}
		if sep == "" {
			end--
			continue
		}
		i := strings.LastIndex(base[:end], sep)
		if i <= 0 {
			break
		}
		end = i
	}
	return "", "", false
}

func (g *Grammar) validate() error {
	if g.Define == "" {
		return errors.New("grammar: empty define directive")
	}
	seen := make(map[string]bool, len(g.Suffixes))
	roles := make(map[Role]bool, len(g.Suffixes))
	for _, s := range g.Suffixes {
		if s.Text == "" {
			return errors.New("grammar: empty suffix")
		}
		if seen[s.Text] {
			return fmt.Errorf("grammar: duplicate suffix %q", s.Text)
		}
		seen[s.Text] = true
		roles[s.Role] = true
	}
	for _, r := range []Role{Offset, Shift} {
		if !roles[r] {
			return fmt.Errorf("grammar: no suffix with the %s role", r)
		}
	}
	if !roles[Mask] && !roles[Width] {
		return errors.New("grammar: no suffix with the mask or width role")
	}
	return nil
}

type yamlSuffix struct {
	Suffix string `yaml:"suffix"`
	Role   string `yaml:"role"`
}

type yamlGrammar struct {
	Define    *string      `yaml:"define"`
	Separator *string      `yaml:"separator"`
	Suffixes  []yamlSuffix `yaml:"suffixes"`
}

// ParseGrammar parses a YAML naming convention. Omitted define and
// separator keys take their DefaultGrammar values.
func ParseGrammar(data []byte) (*Grammar, error) {
	var y yamlGrammar
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}
	g := DefaultGrammar()
	if y.Define != nil {
		g.Define = *y.Define
	}
	if y.Separator != nil {
		g.Separator = *y.Separator
	}
	if y.Suffixes != nil {
		g.Suffixes = make([]Suffix, len(y.Suffixes))
		for i, s := range y.Suffixes {
			r, err := ParseRole(s.Role)
			if err != nil {
				return nil, fmt.Errorf("grammar: suffix %q: %w", s.Suffix, err)
			}
			g.Suffixes[i] = Suffix{s.Suffix, r}
		}
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGrammar reads a YAML naming convention from the named file.
func LoadGrammar(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGrammar(data)
}
