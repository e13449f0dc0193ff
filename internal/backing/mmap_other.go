//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package backing

// acquireMmap falls back to the Go heap where anonymous mappings are unavailable.
func acquireMmap(size int) ([]byte, func() error, error) {
	return acquireHeap(size)
}
