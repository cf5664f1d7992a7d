//go:build aix || solaris

package hostfd

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS
