// Package getnext implements ordered "get next row" traversal over virtual
// tables whose rows are not stored as a sorted index.
//
// A table with N key columns is described by N level functions. Each level
// function answers one question: given the values already fixed for the
// outer columns, what is the smallest value of this column strictly greater
// than cur (or the smallest value at all, when cur is nil)? The composers in
// this package combine those answers into a lexicographic GetNext over the
// whole key tuple, suitable for SNMP, CLI and JSON table walks.
//
// Two composition styles are provided:
//
//   - Dependent composers pass the concrete outer key values to every level
//     and re-resolve all inner levels from their first value whenever an
//     outer level advances.
//   - Independent composers are for tables whose column value sets do not
//     depend on the outer keys. Each level's first value is resolved at most
//     once per call and an empty column short-circuits to "no more rows".
//
// Partial keys follow one rule. When every key is supplied the call returns
// the row strictly after it. When a key is omitted, the supplied prefix is
// kept as-is and the omitted level and everything to its right start from
// their first value, so the result is the first row at or after the prefix.
// Keys supplied after the first omitted one are ignored.
//
// Level functions that share an expensive data source use a Cache, and all
// public entry points of a table owner serialize on a Guard.
package getnext
