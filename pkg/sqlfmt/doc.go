// SPDX-License-Identifier: Apache-2.0

// Package sqlfmt normalizes raw DDL text into readable, deterministic
// output. It never builds an AST: a scanner classifies the statement
// into tokens that respect PostgreSQL's quoting rules, a small set of
// regions (routine bodies, view bodies, comment payloads, dollar-quoted
// blocks) are protected behind placeholders before any rewriting, and a
// per-statement-family formatter re-emits the statement structurally.
// Anything the formatter cannot confidently parse is returned unchanged.
package sqlfmt
