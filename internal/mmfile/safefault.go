//go:build linux

package mmfile

import (
	"fmt"
	"runtime/debug"
	"syscall"
	"unsafe"
)

// MADV_POPULATE_READ is available since Linux 5.14.
// It pre-faults pages and returns EFAULT instead of generating SIGBUS.
const (
	madvisePopulateRead = 22
)

// PreFault pre-faults every page backing a mmap'd product so that a
// truncated or remote file surfaces as an error here instead of as a
// SIGBUS deep inside a backend's bit reader.
//
// Two strategies are tried in order:
//  1. MADV_POPULATE_READ (Linux 5.14+) — the kernel reports EFAULT directly.
//  2. A manual read-through with panic-on-fault enabled, for older kernels.
func PreFault(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	err := tryMadvisePopulate(data)
	if err == nil {
		return nil
	}
	if err != syscall.EINVAL && err != syscall.ENOSYS {
		return fmt.Errorf("madvise populate failed: %w", err)
	}
	return manualPreFault(data)
}

func tryMadvisePopulate(data []byte) error {
	ptr := unsafe.Pointer(&data[0])
	_, _, errno := syscall.Syscall(syscall.SYS_MADVISE, uintptr(ptr), uintptr(len(data)), uintptr(madvisePopulateRead))
	if errno != 0 {
		return errno
	}
	return nil
}

// manualPreFault reads one byte per page to force every page to be
// loaded, converting any SIGBUS into a recoverable panic via
// debug.SetPanicOnFault.
func manualPreFault(data []byte) (retErr error) {
	oldSetting := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(oldSetting)

	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				retErr = fmt.Errorf("memory access fault during pre-fault: %w", err)
			} else {
				retErr = fmt.Errorf("memory access fault during pre-fault: %v", r)
			}
		}
	}()

	const pageSize = 4096
	var sink byte
	for i := 0; i < len(data); i += pageSize {
		sink ^= data[i]
	}
	sink ^= data[len(data)-1]
	_ = sink
	return nil
}
