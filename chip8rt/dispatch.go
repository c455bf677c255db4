package chip8rt

import "fmt"

// FuncPtr is the signature every recompiled function (and the program
// entry point) implements.
type FuncPtr func(ctx *Context)

// funcTableSize bounds the address space the dispatch table indexes,
// matching the 12-bit address space CHIP-8 programs live in.
const funcTableSize = 4096

// funcTable is the process-wide function-pointer table computed jumps
// and the batch launcher resolve addresses through. It is written once
// at ROM-load time (register calls from a ROM's init) and during
// ClearDispatchTable when the batch launcher switches ROMs; readers and
// writers never interleave because loading always runs to completion
// before the entry point is ever called.
var funcTable [funcTableSize]FuncPtr

// RegisterFunction installs fn as the routine reachable at address,
// overwriting whatever was previously registered there.
func RegisterFunction(address uint16, fn FuncPtr) {
	if int(address) >= funcTableSize {
		return
	}
	funcTable[address] = fn
}

// LookupFunction returns the routine registered at address, or nil if
// none has been registered.
func LookupFunction(address uint16) FuncPtr {
	if int(address) >= funcTableSize {
		return nil
	}
	return funcTable[address]
}

// ClearDispatchTable empties the whole table. The batch launcher calls
// this before registering a newly selected ROM's functions, so the
// table always reflects exactly one ROM.
func ClearDispatchTable() {
	funcTable = [funcTableSize]FuncPtr{}
}

// ComputedJump implements the JP V0, addr family (BNNN): it resolves
// base+V[0] through the dispatch table and calls the result, panicking
// if the target was never registered. Per-function-mode code calls this
// for every JP V0; single-function-mode code resolves computed jumps
// with its own switch and does not call it.
func ComputedJump(ctx *Context, base uint16) {
	target := base + uint16(ctx.V[0])
	fn := LookupFunction(target)
	if fn == nil {
		Panic(target, "computed jump to unregistered address")
	}
	fn(ctx)
}

// Panic reports a fatal runtime condition the static analysis could not
// faithfully represent - an unregistered computed jump, a call/return
// stack over- or under-flow, or a reachable but undecodable opcode -
// and terminates the process. Emitted code and chip8rt helpers are the
// only callers; ordinary CHIP-8 control flow never reaches this.
func Panic(address uint16, message string) {
	panicFn(fmt.Sprintf("chip8 panic at 0x%03X: %s", address, message))
}

// panicFn is overridable so tests can observe a panic's message without
// tearing down the test binary.
var panicFn = func(message string) {
	panic(message)
}
