package compiler

import (
	"os"
	"path/filepath"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	"github.com/Supamang2122/helium-interpreter/internal/lexer"
	"github.com/Supamang2122/helium-interpreter/internal/parser"
)

// compileInclude re-enters the full pipeline for the included file and
// inlines the compiled statements into the current program, as if they
// appeared at the include site.
func (c *Compiler) compileInclude(p *bytecode.Program, node *parser.Node) {
	path, data, ok := c.resolveInclude(node.Value, node.Pos.Origin)
	if !ok {
		c.fail(node.Pos, "Failed to read include file '"+node.Value+"'")
	}

	source := string(data)
	tokens, err := lexer.New(source, path).Lexify()
	if err != nil {
		panic(err)
	}
	tree, err := parser.Parse(tokens, source, path)
	if err != nil {
		panic(err)
	}

	c.sources[path] = source
	c.compileBlock(p, tree)
}

// resolveInclude tries the including file's directory first, then each
// configured include path, then the path as given.
func (c *Compiler) resolveInclude(path, origin string) (string, []byte, bool) {
	candidates := []string{filepath.Join(filepath.Dir(origin), path)}
	for _, dir := range c.includePaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	candidates = append(candidates, path)

	for _, candidate := range candidates {
		if data, err := os.ReadFile(candidate); err == nil {
			return candidate, data, true
		}
	}
	return "", nil, false
}
