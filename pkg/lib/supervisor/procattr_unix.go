//go:build unix

package supervisor

import (
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// New process group so the child's own children are signaled
		// together with it.
		Setpgid: true,
	}
}
