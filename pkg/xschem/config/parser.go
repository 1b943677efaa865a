package config

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

var rcParser = participle.MustBuild[rcFile](
	participle.Lexer(rcLexer),
	participle.Elide("Comment", "Whitespace", "Newline"),
	participle.UseLookahead(2),
)

func parseRC(src string) (*rcFile, error) {
	f, err := rcParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("xschem: config: %w", err)
	}
	return f, nil
}
