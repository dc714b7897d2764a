// Package paste turns clipboard content into something an editor can insert.
//
// A paste is handled in a fixed order by [Pipeline.Handle]:
//
//  1. Text pasted into a table cell is run through the [Classifier]; image
//     and YouTube URLs become an embed.
//  2. Clipboard HTML holding an <img> but no table is inserted as-is.
//  3. [Detect] picks a tabular [Format]. Clipboard HTML with a table wins,
//     then Markdown, TSV, CSV, SpaceSeparated and DashSeparated, in that order.
//  4. The [Normalizer] parses the content into a rectangular [Grid] of at
//     least two columns and the [Renderer] gives it a table id and a stable
//     id per cell.
//
// Anything else passes through untouched. Nothing in this package returns an
// error: malformed input degrades to plain text, a placeholder row or a
// pass-through.
//
// # Cell addresses
//
// Header cells are "header_{table}_{col}", body cells "cell_{table}_{row}_{col}".
// [Reorder] and [ReorderMarkup] move cell content between columns and never
// touch these ids, so anything bound to an id keeps pointing at the same slot.
package paste
