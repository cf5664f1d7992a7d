package fd

import "golang.org/x/sys/unix"

// O_LARGEFILE is passed to open(2). It matters on 32-bit Linux and is
// ignored on 64-bit kernels.
const O_LARGEFILE = unix.O_LARGEFILE
