// Package version resolves version of cstr module from build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"
)

// Module path of cstr.
const Module = "github.com/go-faster/cstr"

var once struct {
	value Value
	sync.Once
}

// Value is semantic version of module.
type Value struct {
	Major int
	Minor int
	Patch int
	Name  string // pre-release, like "alpha.1" or "dev"
	Raw   string
}

func (v Value) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Name != "" {
		s += "-" + v.Name
	}
	return s
}

var dev = Value{Name: "dev", Raw: "0.0.1-dev"}

// Extract finds module version in info, either as main module or as
// dependency. Unknown or invalid versions are reported as dev.
func Extract(info *debug.BuildInfo) Value {
	raw := ""
	if strings.HasPrefix(info.Main.Path, Module) {
		raw = info.Main.Version
	}
	for _, d := range info.Deps {
		if d.Path == Module {
			raw = d.Version
			if d.Replace != nil && d.Replace.Version != "" {
				raw = d.Replace.Version
			}
			break
		}
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return dev
	}
	out := Value{
		Name: v.Prerelease(),
		Raw:  raw,
	}
	if s := v.Segments(); len(s) > 2 {
		out.Major, out.Minor, out.Patch = s[0], s[1], s[2]
	}
	return out
}

// Get returns version of module in current binary.
func Get() Value {
	once.Do(func() {
		once.value = dev
		if info, ok := debug.ReadBuildInfo(); ok {
			once.value = Extract(info)
		}
	})
	return once.value
}
