// Package vset provides an in-memory HNSW vector index and a small
// filter expression compiler, as two independent packages with no
// dependency between them.
//
// # Key features
//
//   - In-memory HNSW index (pkg/hnsw) with F32/Q8/BIN quantization,
//     concurrent reads via a reader-slot/epoch protocol, optimistic
//     prepare/commit inserts, live deletion with neighbor repair, a
//     structural validator, and a recall self-test.
//   - Filter expression compiler (pkg/expr): a lexer and shunting-yard
//     compiler producing a postfix program, plus a small stack VM to
//     evaluate it against a caller-supplied field resolver.
//
// # Quick start
//
//	import (
//	    "github.com/liliang-cn/vset/pkg/hnsw"
//	    "github.com/liliang-cn/vset/pkg/expr"
//	)
//
//	idx := hnsw.NewIndex(128, hnsw.QuantNone)
//	n, err := idx.Insert(vector, 1, myPayload, hnsw.DefaultEfConstruction)
//	results, err := idx.Search(query, 10, hnsw.DefaultEfSearch)
//
//	program, err := expr.Compile(`.age >= 18 and .country == "US"`)
//	value, err := expr.Evaluate(program, myResolver)
//
// This package itself holds no code; see pkg/hnsw and pkg/expr.
package vset
