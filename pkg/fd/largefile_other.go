//go:build !linux

package fd

// O_LARGEFILE is zero where large file support is implicit.
const O_LARGEFILE = 0
