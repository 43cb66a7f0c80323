// Package models defines the contact book's domain entity and its persistence interfaces.
//
//   - [Contact] : a stored contact record, identified by a store-assigned integer ID
//   - [ContactInput] : raw form or CSV field values before validation
//   - [ValidationErrors] : every field-level failure found by [Validate]
//
// [Validate] is the single entry point from untrusted input to a [Contact]; it is pure and performs no I/O.
// The [Repository] interface describes the storage operations the data access layer provides.
package models
