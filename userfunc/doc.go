// Package userfunc resolves scenario.UserFunctionRef values into typed Go
// callables and invokes them with the correct signature for their call
// site (save, verify, auth, or substitution). module:symbol references
// resolve against maps registered with Binder.RegisterModule, and bare
// symbols through a host-supplied SymbolTable; there is no dynamic import
// in Go, so the embedding test binary registers its callables up front.
package userfunc
