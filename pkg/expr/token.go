package expr

import "fmt"

// TokenType tags the variant held by a Token.
type TokenType int

const (
	// TokenNum is a parsed IEEE-754 double.
	TokenNum TokenType = iota
	// TokenStr is a quoted string literal; Str holds the unescaped value.
	TokenStr
	// TokenSelector is a dot-prefixed field path; Str holds the raw path
	// including the leading dot.
	TokenSelector
	// TokenOp is an operator glyph or word operator.
	TokenOp
	// TokenEOF marks the end of the source text.
	TokenEOF
)

// String implements fmt.Stringer for diagnostics.
func (t TokenType) String() string {
	switch t {
	case TokenNum:
		return "NUM"
	case TokenStr:
		return "STR"
	case TokenSelector:
		return "SELECTOR"
	case TokenOp:
		return "OP"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Opcode identifies an operator. The zero value is OpOpenParen, which
// is never emitted into a compiled Program's value stream (it is a
// shunting-yard marker only).
type Opcode int

const (
	OpOpenParen Opcode = iota
	OpCloseParen
	OpNot
	OpPow
	OpMult
	OpDiv
	OpMod
	OpSum
	OpDiff
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpEQ
	OpNEQ
	OpIn
	OpAnd
	OpOr
)

// opInfo is the fixed (glyph, precedence, arity) attribute set for an
// opcode. Kept as an immutable table rather than baked into control
// flow, per the compiler's design notes.
type opInfo struct {
	name       string
	glyphs     []string
	precedence int
	arity      int
}

// opTable is the operator table referenced by §6 of the specification.
// The order of glyphs within an entry does not matter: the lexer does
// its own longest-prefix scan, and String() uses the entry's name.
var opTable = map[Opcode]opInfo{
	OpOpenParen:  {"OPAREN", []string{"("}, 7, 0},
	OpCloseParen: {"CPAREN", []string{")"}, 7, 0},
	OpNot:        {"NOT", []string{"!", "not"}, 6, 1},
	OpPow:        {"POW", []string{"**"}, 5, 2},
	OpMult:       {"MULT", []string{"*"}, 4, 2},
	OpDiv:        {"DIV", []string{"/"}, 4, 2},
	OpMod:        {"MOD", []string{"%"}, 4, 2},
	OpSum:        {"SUM", []string{"+"}, 3, 2},
	OpDiff:       {"DIFF", []string{"-"}, 3, 2},
	OpGT:         {"GT", []string{">"}, 2, 2},
	OpGTE:        {"GTE", []string{">="}, 2, 2},
	OpLT:         {"LT", []string{"<"}, 2, 2},
	OpLTE:        {"LTE", []string{"<="}, 2, 2},
	OpEQ:         {"EQ", []string{"=="}, 2, 2},
	OpNEQ:        {"NEQ", []string{"!="}, 2, 2},
	OpIn:         {"IN", []string{"in"}, 2, 2},
	OpAnd:        {"AND", []string{"and", "&&"}, 1, 2},
	OpOr:         {"OR", []string{"or", "||"}, 0, 2},
}

// glyphEntry pairs one operator-table glyph spelling with its opcode,
// for the lexer's longest-prefix scan.
type glyphEntry struct {
	glyph string
	op    Opcode
}

// operatorGlyphs is every glyph spelling a run-scan may match against.
// The lexer picks the longest matching entry, so ordering here does
// not matter for correctness.
var operatorGlyphs []glyphEntry

func init() {
	for op, info := range opTable {
		for _, glyph := range info.glyphs {
			operatorGlyphs = append(operatorGlyphs, glyphEntry{glyph: glyph, op: op})
		}
	}
}

// Precedence returns the opcode's shunting-yard precedence.
func (o Opcode) Precedence() int { return opTable[o].precedence }

// Arity returns the number of operands the opcode consumes.
func (o Opcode) Arity() int { return opTable[o].arity }

// String implements fmt.Stringer, returning the opcode's canonical
// mnemonic (e.g. "MULT", not "*").
func (o Opcode) String() string {
	if info, ok := opTable[o]; ok {
		return info.name
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Token is a single lexed unit, tagged by Type. Offset is the byte
// offset into the source expression where the token starts, used for
// error reporting.
type Token struct {
	Type     TokenType
	Num      float64
	Str      string // string literal / selector path (raw, with leading dot)
	Op       Opcode
	Offset   int
}

// String renders a Token for diagnostics.
func (t Token) String() string {
	switch t.Type {
	case TokenNum:
		return fmt.Sprintf("NUM:%g", t.Num)
	case TokenStr:
		return fmt.Sprintf("STR:%q", t.Str)
	case TokenSelector:
		return fmt.Sprintf("SEL:%s", t.Str)
	case TokenOp:
		return fmt.Sprintf("OP:%s", t.Op)
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}
