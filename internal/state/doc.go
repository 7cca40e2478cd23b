// Package state holds the value types exchanged between the harness and the
// control laws: the 6-DOF vehicle snapshot and its surface command, and the
// 1-D axis snapshot and its force command.
//
// The types carry no behavior beyond field access and vector conversion. No
// validation happens on construction; the harness is responsible for
// supplying physically sensible values.
package state
