// Package config parses the Tcl-flavoured xschemrc search-path
// configuration and resolves it into an absolute, existing directory
// list.
package config

import "github.com/alecthomas/participle/v2/lexer"

// rcLexer tokenizes xschemrc directive lines. Only "set" and "append"
// are given grammar structure; everything after the variable name on a
// line is captured as one raw Rest token and expanded by a hand-written
// pass afterward — full Tcl substitution is explicitly out of scope, and
// a context-free grammar is the wrong tool for ${VAR}/env(NAME)/literal
// sentinel expansion anyway.
var rcLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Keyword", Pattern: `\b(set|append)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Rest", Pattern: `[^\s][^\n]*`},
})
