package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	sink := diag.NewSink([]string{"<test>"})
	lx := New(src, 0, sink)
	var toks []token.Token
	for {
		tok := lx.NextToken()
		if tok.Kind == token.NEWLINE {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	assert.False(t, sink.HasErrors(), "unexpected lexer errors for %q", src)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexer_Operators(t *testing.T) {
	toks := scanAll(t, "1 + 2 * 3")
	assert.Equal(t, []token.Kind{token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF}, kinds(toks))
}

func TestLexer_BindingForms(t *testing.T) {
	toks := scanAll(t, "x ::= 1")
	assert.Equal(t, []token.Kind{token.IDENT, token.MUT_EQ, token.INT, token.EOF}, kinds(toks))
}

func TestLexer_AtForms(t *testing.T) {
	toks := scanAll(t, "@std.io.println(1)")
	assert.Equal(t, token.AT_STD, toks[0].Kind)
}

func TestLexer_QuestionOperator(t *testing.T) {
	toks := scanAll(t, "x ? { 1 }")
	assert.Contains(t, kinds(toks), token.QUESTION)
}

func TestLexer_Keywords(t *testing.T) {
	toks := scanAll(t, "x as i64")
	assert.Equal(t, token.AS, toks[1].Kind)
}
