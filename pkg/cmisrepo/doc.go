// Package cmisrepo provides an in-memory, hierarchical, versioned, typed
// object repository engine in the shape of the CMIS domain model, together
// with a protocol-agnostic Service facade for wire bindings to call into.
//
// It exposes a single Service interface covering the repository, navigation,
// object, versioning, multi-filing, and discovery operation groups. Every
// call carries a CallContext (repository id, user, binding); the engine
// itself performs no I/O, keeps no per-request state, and leaves wire
// encoding, authentication, query evaluation, and ACL enforcement to
// collaborators. The in-memory store and type manager implementations live
// under repo/memory.
//
// # Consistency
//
// Each repository's store serializes its check-then-act sequences (child
// name uniqueness, checkout state transitions, structural deletes) behind a
// repository-wide lock; a failed mutation leaves the store exactly as it
// was. Objects returned from the store are copies, so readers never observe
// an in-flight mutation.
package cmisrepo
