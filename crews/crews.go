// Package crews embeds the crew definitions shipped with crewmesh.
package crews

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/hupe1980/crewmesh/config"
	"github.com/hupe1980/crewmesh/core"
)

// Names of the embedded definitions.
const (
	Build   = "build"
	Enhance = "enhance"
)

// CurrentGameInput is the kickoff input the enhance crew reads the existing game from.
const CurrentGameInput = "current_game"

//go:embed *.yaml
var definitions embed.FS

// Names lists the embedded definitions in lexical order.
func Names() []string {
	entries, err := fs.ReadDir(definitions, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Raw returns the YAML source of the named definition.
func Raw(name string) ([]byte, error) {
	data, err := definitions.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: no embedded crew %q (have %s)", core.ErrValidation, name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Load parses the named definition, applying environment overrides unless
// disabled through optFns.
func Load(name string, optFns ...func(o *config.LoadOptions)) (*config.CrewConfig, error) {
	data, err := Raw(name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Parse(data, optFns...)
	if err != nil {
		return nil, fmt.Errorf("crew %q: %w", name, err)
	}
	return cfg, nil
}
