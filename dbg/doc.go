/*
Package dbg implements a stepwise debugger for redex programs.

Instead of running a program to completion, a dbg.Run advances the
underlying vm machine one transition at a time and reports an ordered set
of key/value rows for every completed reduction: the operator applied,
its argument values, the produced value, and finally the overall result
or failure. Consumers may inject overrides to mock out functions,
identified by the hash of their program tree.

The debugger only observes evaluation; it shares the vm package's machine
states and never alters program semantics unless an override says so.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package dbg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.dbg'.
func tracer() tracing.Trace {
	return tracing.Select("redex.dbg")
}
