//go:build nanbox_nocheck

package box

const checkPreconditions = false

// require is a no-op: a violated precondition yields an unspecified but
// memory-safe result.
func require(cond bool, msg string) {}
