//go:build dragonfly || freebsd || netbsd || openbsd

package hostfd

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TIOCGETA
