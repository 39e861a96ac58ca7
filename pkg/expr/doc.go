// Package expr compiles a small arithmetic/logical filter expression
// language into a postfix program that can later be evaluated against
// an arbitrary object model through a caller-supplied field resolver.
//
// The language supports numbers, single/double-quoted strings, dotted
// field selectors, the usual comparison and arithmetic operators, and
// the word operators and/or/in/not (plus the && and || spellings of
// and/or). Compilation is a two-stage pipeline: a lexer turns source
// text into a token stream, and a shunting-yard compiler turns that
// stream into a linear postfix program. token.go defines the opcode
// set; the VM half (program.go, vm.go) defines the stack discipline, and the
// resolver contract an evaluator must honor; it does not assume any
// particular object model.
package expr
