package fhe

import (
	"runtime/debug"
	"sync"
)

var (
	Version       = "v0.0.0-in-progress"
	EngineModule  = "github.com/tuneinsight/lattigo/v6"
	EngineVersion = ""
)

// LibraryVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func LibraryVersion() string {
	return Version
}

var engineVersionOnce = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == EngineModule {
			return dep.Version
		}
	}
	return "unknown"
})

// EngineVersionString reports the linked lattigo version: the ldflags value
// when set, otherwise the module version recorded in the build info.
func EngineVersionString() string {
	if EngineVersion != "" {
		return EngineVersion
	}
	return engineVersionOnce()
}
