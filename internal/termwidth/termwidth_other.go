//go:build !unix

package termwidth

import "os"

const defaultWidth = 80

// Get returns defaultWidth on non-unix platforms, where no ioctl is available.
func Get(f *os.File) int {
	return defaultWidth
}
