// File: bridge/eventbridge.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EventBridge is the common entry point shared by PerpetualBridge and
// EphemeralBridge: a single OnWork callback that always runs on the
// bridge's AsyncContext run-loop goroutine. A closure carries its receiver
// directly, so OnWork here is simply the function the caller supplied at
// construction. Kept as a named type (rather than a bare func) so
// PerpetualBridge and EphemeralBridge can embed the shared "what to do
// when the worker fires" concept under one name.
package bridge

// OnWorkFunc is invoked on the owning AsyncContext's run-loop goroutine
// when a worker fires.
type OnWorkFunc func()
