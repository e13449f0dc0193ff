//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package backing

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// acquireMmap maps size bytes of anonymous, private, read-write memory.
func acquireMmap(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("backing: mmap %d bytes: %w", size, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Already unmapped.
			return nil
		}
		return err
	}
	return data, release, nil
}
