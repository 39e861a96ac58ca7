package expr

import "testing"

func programString(t *testing.T, src string) string {
	t.Helper()
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): unexpected error: %v", src, err)
	}
	return p.String()
}

func TestCompilePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1+2*3", "[NUM:1, NUM:2, NUM:3, OP:MULT, OP:SUM]"},
		{"-5", "[NUM:-5]"},
		{"3+-5", "[NUM:3, NUM:-5, OP:SUM]"},
	}
	for _, tc := range cases {
		if got := programString(t, tc.src); got != tc.want {
			t.Errorf("Compile(%q) = %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestCompileParensAndBoolean(t *testing.T) {
	got := programString(t, "(5+2)*3 and 'foo'")
	want := "[NUM:5, NUM:2, OP:SUM, NUM:3, OP:MULT, STR:\"foo\", OP:AND]"
	if got != want {
		t.Errorf("Compile(...) = %s, want %s", got, want)
	}
}

func TestCompileSelectors(t *testing.T) {
	got := programString(t, `.age >= 18 and .country == "US"`)
	want := "[SEL:.age, NUM:18, OP:GTE, SEL:.country, STR:\"US\", OP:EQ, OP:AND]"
	if got != want {
		t.Errorf("Compile(...) = %s, want %s", got, want)
	}
}

func TestCompileAltSpellings(t *testing.T) {
	a := programString(t, ".a and .b")
	b := programString(t, ".a && .b")
	if a != b {
		t.Errorf("and/&& should compile identically: %s != %s", a, b)
	}
}

func TestCompileUnbalancedParen(t *testing.T) {
	_, err := Compile("(")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("Compile(\"(\") error = %v, want *SyntaxError", err)
	}
	if se.Offset != 0 || se.Kind != ErrUnbalancedParen {
		t.Errorf("Compile(\"(\") = %+v, want offset 0 kind ErrUnbalancedParen", se)
	}
}

func TestCompileExtraCloseParen(t *testing.T) {
	_, err := Compile("1)")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("Compile(\"1)\") error = %v, want *SyntaxError", err)
	}
	if se.Kind != ErrUnbalancedParen {
		t.Errorf("Compile(\"1)\") kind = %v, want ErrUnbalancedParen", se.Kind)
	}
}

func TestCompileBracketsRejected(t *testing.T) {
	if _, err := Compile("[1,2,3]"); err == nil {
		t.Fatalf("Compile(\"[1,2,3]\") expected an error, got none")
	}
}

func TestCompileUnusedTokens(t *testing.T) {
	_, err := Compile("1 2")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("Compile(\"1 2\") error = %v, want *SyntaxError", err)
	}
	if se.Kind != ErrUnusedTokens {
		t.Errorf("Compile(\"1 2\") kind = %v, want ErrUnusedTokens", se.Kind)
	}
}

func TestCompileUnaryNotAfterCloseParen(t *testing.T) {
	// The '-' right after ')' must lex as a binary DIFF, not as the
	// sign of a new number literal.
	got := programString(t, "(1)-1")
	want := "[NUM:1, NUM:1, OP:DIFF]"
	if got != want {
		t.Errorf("Compile(...) = %s, want %s", got, want)
	}
}
