// Package jsparse builds syntax trees from JavaScript and TypeScript sources
// using tree-sitter grammars.
package jsparse

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/dkoosis/dictlint/pkg/syntax"
)

// Parser parses JavaScript, JSX, TypeScript and TSX files. The zero value is
// ready to use and safe for concurrent use; every call gets its own
// tree-sitter parser.
type Parser struct{}

// Extensions returns the file extensions this parser handles.
func (Parser) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}
}

// Parse parses src, choosing the grammar from the file extension.
func (Parser) Parse(ctx context.Context, filename string, src []byte) (*syntax.Document, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(languageFor(filename))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	c := &converter{src: src, index: syntax.NewLineIndex(src)}
	root := tree.RootNode()
	if root.HasError() {
		return nil, c.syntaxError(root)
	}

	doc := &syntax.Document{Loc: c.span(root)}
	doc.Body = c.namedChildren(root)
	return doc, nil
}

func languageFor(filename string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

type converter struct {
	src   []byte
	index *syntax.LineIndex
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	return c.index.Span(int(n.StartByte()), int(n.EndByte()))
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) namedChildren(n *sitter.Node) []syntax.Node {
	var nodes []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		nodes = append(nodes, c.convert(child))
	}
	return nodes
}

func (c *converter) convert(n *sitter.Node) syntax.Node {
	switch n.Type() {
	case "object":
		return c.object(n)
	case "array":
		return &syntax.Array{Elements: c.namedChildren(n), Loc: c.span(n)}
	case "string":
		return &syntax.Literal{
			LitKind: syntax.LiteralString,
			Raw:     c.text(n),
			Value:   c.stringValue(n),
			Loc:     c.span(n),
		}
	case "number":
		raw := c.text(n)
		value := raw
		if f, ok := syntax.ParseNumber(raw); ok {
			value = syntax.FormatNumber(f)
		}
		return &syntax.Literal{LitKind: syntax.LiteralNumber, Raw: raw, Value: value, Loc: c.span(n)}
	case "true", "false":
		return &syntax.Literal{LitKind: syntax.LiteralBoolean, Raw: n.Type(), Value: n.Type(), Loc: c.span(n)}
	case "null":
		return &syntax.Literal{LitKind: syntax.LiteralNull, Raw: "null", Value: "null", Loc: c.span(n)}
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "type_identifier":
		return &syntax.Identifier{Name: c.text(n), Loc: c.span(n)}
	default:
		return &syntax.Other{Type: n.Type(), Nodes: c.namedChildren(n), Loc: c.span(n)}
	}
}

func (c *converter) object(n *sitter.Node) *syntax.Object {
	obj := &syntax.Object{Loc: c.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		var prop *syntax.Property
		switch child.Type() {
		case "pair":
			prop = &syntax.Property{PropKind: syntax.PropertyKeyValue}
			c.setKey(prop, child.ChildByFieldName("key"))
			if value := child.ChildByFieldName("value"); value != nil {
				prop.Value = c.convert(value)
			}
		case "shorthand_property_identifier":
			prop = &syntax.Property{PropKind: syntax.PropertyShorthand, Key: c.convert(child)}
		case "spread_element":
			prop = &syntax.Property{PropKind: syntax.PropertySpread}
			if child.NamedChildCount() > 0 {
				prop.Value = c.convert(child.NamedChild(0))
			}
		case "method_definition":
			prop = &syntax.Property{PropKind: syntax.PropertyMethod}
			c.setKey(prop, child.ChildByFieldName("name"))
			if body := child.ChildByFieldName("body"); body != nil {
				prop.Value = c.convert(body)
			}
		default:
			continue
		}
		prop.Loc = c.span(child)
		obj.Properties = append(obj.Properties, prop)
	}
	return obj
}

func (c *converter) setKey(prop *syntax.Property, key *sitter.Node) {
	if key == nil {
		return
	}
	if key.Type() == "computed_property_name" {
		prop.Computed = true
		if key.NamedChildCount() > 0 {
			prop.Key = c.convert(key.NamedChild(0))
		}
		return
	}
	prop.Key = c.convert(key)
}

func (c *converter) stringValue(n *sitter.Node) string {
	var b strings.Builder
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		part := n.NamedChild(i)
		switch part.Type() {
		case "string_fragment":
			b.WriteString(c.text(part))
		case "escape_sequence":
			seq := c.text(part)
			// \uD83D\uDE00 arrives as two escape nodes
			if i+1 < count && n.NamedChild(i+1).Type() == "escape_sequence" {
				if r, ok := surrogatePair(seq, c.text(n.NamedChild(i+1))); ok {
					b.WriteRune(r)
					i++
					continue
				}
			}
			b.WriteString(unescape(seq))
		}
	}
	return b.String()
}

func (c *converter) syntaxError(root *sitter.Node) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	msg := "unexpected token"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %s", bad.Type())
	}
	return &syntax.ParseError{
		Pos: c.index.Position(int(bad.StartByte())),
		Err: errors.New(msg),
	}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}
