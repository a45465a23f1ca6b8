//go:build windows

package consolidate

// Default returns the Consolidator for this platform.
// Windows limits command-line length and search path counts, so search
// paths are unified.
func Default(config Config) Consolidator {
	return NewUnifier(config)
}
