//go:build !windows

package consolidate

// Default returns the Consolidator for this platform.
func Default(Config) Consolidator {
	return Passthrough{}
}
