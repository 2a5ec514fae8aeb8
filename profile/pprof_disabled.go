//go:build !pprof

package profile

// Enabled reports whether the binary was built with [Tag].
const Enabled = false

// Modes returns no modes when built without [Tag].
func Modes() []string { return nil }

func start(string, string, bool) Stopper { return ignore{} }
