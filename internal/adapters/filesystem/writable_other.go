//go:build !unix

package filesystem

import "os"

// writable probes dir by creating and removing a temporary file.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".stubgen-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
