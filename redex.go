package redex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "fmt"

// --- Cost accounting --------------------------------------------------------

// Cost measures the work done by the virtual machine while evaluating a
// program. Every reduction carries a cost; callers may impose an upper
// limit on the total cost of a run.
type Cost uint64

// NoCostLimit means a run is not bounded by cost.
const NoCostLimit Cost = 0

// String returns the cost as a decimal number.
func (c Cost) String() string {
	return fmt.Sprintf("%d", uint64(c))
}
