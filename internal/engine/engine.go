// Package engine defines the capability contract every synthesis backend
// implements, plus the built-in engines bundled with the daemon.
package engine

import "ttsd/pkg/types"

// Engine is the fixed contract consumed by the registry and router. Run
// must write the finished artifact to dest and return an error on failure;
// the router imposes no timeout or cancellation on it, so any timeout
// policy belongs to the engine itself.
type Engine interface {
	Name() string
	Traits() []types.Trait
	Options() []types.Option
	Desc() string
	Run(text string, options map[string]any, dest string) error
}

// Config carries the shared settings engine constructors receive.
type Config struct {
	// TempDir is where engines place intermediate audio before transcoding.
	TempDir string
	// LameFlags are extra arguments passed to lame, e.g. "--quiet -q 2".
	LameFlags string
}
