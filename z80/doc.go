// Package z80 implements the target-machine layer for the zcalc generator.
//
// The Builder is a deferred-resolution image emitter: code and data are
// appended linearly while symbolic labels are collected, absolute 16-bit
// references are recorded as fixups, and short relative branches are patched
// immediately against already-defined labels. Finish consumes the builder,
// resolves every fixup, and returns the final byte image.
//
// The CPU is an interpreter for the instruction subset the generator emits,
// driven through a Bus for memory and port access. It exists so that a
// generated image can be booted and observed on the host.
package z80
