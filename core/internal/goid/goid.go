// Package goid extracts the id of the calling goroutine.
//
// Go has no public API for this; the runtime prints it as the first
// token of a goroutine's stack trace ("goroutine 123 [running]: ..."),
// so that's what we parse. This is the same technique used internally by
// goroutine-local-storage packages in the wild (petermattis/goid,
// jtolds/gls) -- it is slow enough that callers should cache the result
// per goroutine rather than call it on every lock acquisition.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Current returns the id of the calling goroutine.
func Current() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// "goroutine 123 [running]:\n..."
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		panic("goid: unexpected stack trace format")
	}
	buf = buf[len(prefix):]

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		panic("goid: unexpected stack trace format")
	}

	id, err := strconv.ParseInt(string(buf[:end]), 10, 64)
	if err != nil {
		panic("goid: failed to parse goroutine id: " + err.Error())
	}
	return id
}
