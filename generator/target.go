package generator

import (
	"slices"
	"strings"

	"github.com/erraggy/oassync/oaserrors"
)

// Target identifies an output ecosystem.
type Target string

const (
	// TargetTypeScript emits TypeScript type declarations.
	TargetTypeScript Target = "typescript"
	// TargetTypeScriptFetch emits TypeScript types and a fetch-based client.
	TargetTypeScriptFetch Target = "typescript-fetch"
	// TargetGo emits Go type declarations.
	TargetGo Target = "go"
	// TargetGoClient emits Go types and a net/http client.
	TargetGoClient Target = "go-client"
	// TargetPython emits Python dataclasses and enums.
	TargetPython Target = "python"
)

// Capability is a unit of output a target can produce.
type Capability uint8

const (
	// CapTypes emits one declaration per named schema.
	CapTypes Capability = 1 << iota
	// CapClient emits request-wrapping code for every endpoint.
	CapClient
)

type language string

const (
	langTypeScript language = "typescript"
	langGo         language = "go"
	langPython     language = "python"
)

type targetSpec struct {
	lang       language
	caps       Capability
	typesFile  string
	clientFile string
}

// targets is the fixed capability table.
var targets = map[Target]targetSpec{
	TargetTypeScript:      {lang: langTypeScript, caps: CapTypes, typesFile: "types.ts"},
	TargetTypeScriptFetch: {lang: langTypeScript, caps: CapTypes | CapClient, typesFile: "types.ts", clientFile: "client.ts"},
	TargetGo:              {lang: langGo, caps: CapTypes, typesFile: "types.go"},
	TargetGoClient:        {lang: langGo, caps: CapTypes | CapClient, typesFile: "types.go", clientFile: "client.go"},
	TargetPython:          {lang: langPython, caps: CapTypes, typesFile: "models.py"},
}

// Targets returns the supported targets in name order.
func Targets() []Target {
	out := make([]Target, 0, len(targets))
	for t := range targets {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Has reports whether the target produces the capability. Unknown targets
// have none.
func (t Target) Has(c Capability) bool {
	return targets[t].caps&c != 0
}

// ParseTarget validates a target name.
func ParseTarget(name string) (Target, error) {
	t := Target(name)
	if _, ok := targets[t]; ok {
		return t, nil
	}
	return "", unknownTarget(name)
}

func unknownTarget(name string) error {
	names := make([]string, 0, len(targets))
	for _, t := range Targets() {
		names = append(names, string(t))
	}
	return &oaserrors.ConfigError{
		Option:  "target",
		Value:   name,
		Message: "unknown target; supported targets: " + strings.Join(names, ", "),
	}
}
