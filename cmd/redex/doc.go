/*
Package redex/main provides an interactive command line tool for
programs of the redex virtual machine. It serves as a sandbox for
experiments with program optimization: users may assemble expressions,
run them against an argument environment, single-step them, and watch
the peephole optimizer rewrite them.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.cli'
func tracer() tracing.Trace {
	return tracing.Select("redex.cli")
}
