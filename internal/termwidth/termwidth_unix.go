//go:build unix

// Package termwidth reports the output terminal's column width so the
// diagnostics formatter can truncate source-context lines to fit it.
package termwidth

import (
	"os"

	"golang.org/x/sys/unix"
)

// defaultWidth is used whenever the ioctl fails (piped/redirected output).
const defaultWidth = 80

// Get returns the terminal width of fd's underlying file descriptor,
// or defaultWidth if it cannot be determined.
func Get(f *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultWidth
	}
	return int(ws.Col)
}
