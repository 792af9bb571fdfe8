//go:build !nanbox_nocheck

package box

// checkPreconditions enables accessor and constructor precondition checks.
// Build with -tags nanbox_nocheck to compile them out.
const checkPreconditions = true

func require(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
