package abi

import "sync"

// Diagnostics are keyed by OS thread. A slot is created on the first
// failure a thread reports and lives as long as the process.
var diag = struct {
	sync.RWMutex
	msgs map[int]string
}{msgs: map[int]string{}}

func setLastError(msg string) {
	tid := threadID()
	diag.Lock()
	diag.msgs[tid] = msg
	diag.Unlock()
}

// LastError returns the diagnostic of the most recent failure on the calling
// OS thread, or "" if none was recorded. It never fails.
func LastError() string {
	tid := threadID()
	diag.RLock()
	defer diag.RUnlock()
	return diag.msgs[tid]
}
