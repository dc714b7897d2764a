// Package core provides the business logic for pasting content into posts.
//
// The package holds all domain logic independent of any UI or transport
// layer. It is used by the HTTP server, the pastectl CLI and tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Service: the entry point for all operations (paste, classify, detect,
//     post CRUD, column reorder, history).
//   - Pipeline: the paste decision itself lives in package paste; the Service
//     wraps it with size and target checks, Unicode cleanup and a concurrency
//     limit.
//   - Stores: posts and their history sit behind [PostStore]. [PgStore] is
//     backed by PostgreSQL and [MemoryStore] serves the CLI and tests.
//   - Errors: [MapError] turns any error into a [UserMessage] with a stable
//     code for the API.
//
// # Paste Flow
//
//  1. Client calls [Service.Paste] with the clipboard text, optional HTML and
//     the paste target (document body or table cell).
//  2. Oversized, empty and malformed requests are rejected up front.
//  3. A slot is taken from the [PasteLimiter]; callers wait up to the
//     configured time before getting [ErrTooManyPastes].
//  4. The text is sanitized and handed to the pipeline, which returns the
//     action to perform and the markup to insert.
//
// # Column Reorder
//
// [Service.ReorderColumns] moves a column of a table already stored in a
// post. The read-modify-write runs inside [PostStore.EditPostContent], which
// for PostgreSQL is a single transaction holding a row lock on the post.
//
// # History
//
// Post mutations are recorded as [PostEvent] values with the client IP and
// User-Agent taken from the request context (see [ContextWithIPAddress]).
// Recording is best effort: a failed write is logged and the mutation still
// succeeds.
package core
