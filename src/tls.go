package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	A thread-local (really: goroutine-local) stack of active
 *		builders, per spec.md section 5: "multiple threads may
 *		construct independent graphs in parallel; they may not
 *		share a builder."
 *
 * Description:	Go has no native thread-local storage. We key a small
 *		map by the calling goroutine's numeric id, extracted from
 *		the runtime's own stack-trace text -- the standard trick
 *		(see e.g. petermattis/goid) for the rare case where a
 *		package genuinely needs per-goroutine state instead of
 *		passing a handle explicitly. No external dependency in
 *		the pack offers this; it is always hand-rolled, even in
 *		libraries whose entire purpose is doing exactly this.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	tlsMutex sync.Mutex
	tlsStack = map[uint64][]*Builder{}
)

// goroutineID parses "goroutine 123 [running]:" off the start of a stack
// trace captured for just the calling goroutine.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if idx := bytes.IndexByte(b, ' '); idx >= 0 {
		b = b[:idx]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// pushBuilder makes b the active builder for the calling goroutine.
func pushBuilder(b *Builder) {
	gid := goroutineID()
	tlsMutex.Lock()
	defer tlsMutex.Unlock()
	tlsStack[gid] = append(tlsStack[gid], b)
}

// popBuilder pops the active builder for the calling goroutine. It is a
// programming error to call this without a matching pushBuilder; it panics
// in that case since it indicates a bug in this package, not user input.
func popBuilder() {
	gid := goroutineID()
	tlsMutex.Lock()
	defer tlsMutex.Unlock()
	stack := tlsStack[gid]
	if len(stack) == 0 {
		panic("nanosynth: popBuilder called with no active builder")
	}
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(tlsStack, gid)
	} else {
		tlsStack[gid] = stack
	}
}

// currentBuilder returns the active builder for the calling goroutine, or
// nil if none is active.
func currentBuilder() *Builder {
	gid := goroutineID()
	tlsMutex.Lock()
	defer tlsMutex.Unlock()
	stack := tlsStack[gid]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}
