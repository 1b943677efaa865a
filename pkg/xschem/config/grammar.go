package config

// rcFile is the top-level participle grammar: a sequence of set/append
// directives. Blank/comment-only lines are elided by the lexer.
type rcFile struct {
	Directives []*rcDirective `@@*`
}

type rcDirective struct {
	Set    *rcSet    `  @@`
	Append *rcAppend `| @@`
}

type rcSet struct {
	Var string `"set" @Ident`
	Val string `@Rest?`
}

type rcAppend struct {
	Var string `"append" @Ident`
	Val string `@Rest`
}
