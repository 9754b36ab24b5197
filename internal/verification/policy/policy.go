// Package policy loads the tunable parts of verification: income tiers and
// the name-matching affix allow-lists.
package policy

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"sadapurne/internal/verification/classify"
	"sadapurne/internal/verification/namematch"
)

type Policy struct {
	Income classify.Config  `toml:"income"`
	Names  namematch.Config `toml:"names"`
}

func Default() Policy {
	return Policy{
		Income: classify.DefaultConfig(),
		Names:  namematch.DefaultConfig(),
	}
}

func (p Policy) Validate() error {
	return errors.Join(p.Income.Validate(), p.Names.Validate())
}

// Load overlays the TOML file at path on the defaults. An empty path returns
// the defaults. Keys absent from the file keep their default values.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Policy{}, fmt.Errorf("decode policy %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Policy{}, fmt.Errorf("policy %s: unknown keys %v", path, undecoded)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}
