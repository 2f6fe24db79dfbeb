// File: netio/noCopy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netio

// noCopy marks a struct non-copyable to `go vet`'s copylocks check.
// RxBuffer and TxWriter embed one because they hold cursor and counter
// state that must never be duplicated by passing them by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
