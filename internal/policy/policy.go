package policy

import (
	"fmt"
	"strings"
)

// Flags is the set of options attached to a seed job. Values are powers of
// two, combinable with a bitwise OR; their numbering is stable.
type Flags uint8

const (
	TruncateTable Flags = 1 << iota
	ImportData
	SkipPrimaryKey
	DisableFKConstraints
	NoSeedInProduction
	NoTruncateInProduction
	AlwaysFullSeed
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{TruncateTable, "truncate"},
	{ImportData, "import"},
	{SkipPrimaryKey, "skip_pk"},
	{DisableFKConstraints, "disable_fk"},
	{NoSeedInProduction, "no_seed_in_prod"},
	{NoTruncateInProduction, "no_truncate_in_prod"},
	{AlwaysFullSeed, "always_full_seed"},
}

// Has reports whether every bit of flag is present in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// ParseFlags combines named options into a Flags value.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown seed option: %s", raw)
		}
	}
	return f, nil
}

type Environment int

const (
	Other Environment = iota
	Development
	Production
)

func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "development", "dev", "local":
		return Development
	default:
		return Other
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Development:
		return "development"
	default:
		return "other"
	}
}

// PassesEnvironmentCheck returns false when the guarding flag is set and the
// run targets production. A false result forbids the operation; it is not an
// error.
func PassesEnvironmentCheck(options, guard Flags, env Environment) bool {
	return !(options.Has(guard) && env == Production)
}
