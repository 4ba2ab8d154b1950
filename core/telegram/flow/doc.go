// Package flow provides a schema-driven collection engine for multi-step
// Telegram conversations. A Schema declares the ordered fields one entity
// needs; the Engine walks a per-user Session through them, validating each
// submission and handing the assembled values back to the caller. It is
// intentionally domain-agnostic so it can be reused across bots.
package flow
