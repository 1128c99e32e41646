// Package jsonparse builds syntax trees from JSON documents.
package jsonparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/dkoosis/dictlint/pkg/syntax"
)

// Parser parses JSON text. The zero value is ready to use.
type Parser struct{}

// Extensions returns the file extensions this parser handles.
func (Parser) Extensions() []string {
	return []string{".json"}
}

// Parse parses src into a document holding a single top-level value. Empty
// or whitespace-only input yields an empty document. Duplicate object names
// are kept, in source order.
func (Parser) Parse(_ context.Context, _ string, src []byte) (*syntax.Document, error) {
	p := &parser{
		src:   src,
		index: syntax.NewLineIndex(src),
		dec:   jsontext.NewDecoder(bytes.NewReader(src), jsontext.AllowDuplicateNames(true)),
	}

	doc := &syntax.Document{Loc: p.index.Span(0, len(src))}

	tok, start, end, err := p.next()
	if errors.Is(err, io.EOF) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	value, err := p.value(tok, start, end)
	if err != nil {
		return nil, err
	}
	doc.Body = []syntax.Node{value}

	if _, _, _, err := p.next(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = p.errorAt(p.prevEnd, errors.New("unexpected data after top-level value"))
		}
		return nil, err
	}
	return doc, nil
}

type parser struct {
	src     []byte
	index   *syntax.LineIndex
	dec     *jsontext.Decoder
	prevEnd int
}

// next reads one token and returns it with its byte range.
func (p *parser) next() (jsontext.Token, int, int, error) {
	tok, err := p.dec.ReadToken()
	if err != nil {
		if errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return jsontext.Token{}, 0, 0, io.EOF
		}
		return jsontext.Token{}, 0, 0, p.wrap(err)
	}
	end := int(p.dec.InputOffset())
	start := p.tokenStart(end)
	p.prevEnd = end
	return tok, start, end, nil
}

// tokenStart finds where the token that ends at end begins, skipping the
// whitespace and separators the decoder consumed before it.
func (p *parser) tokenStart(end int) int {
	i := p.prevEnd
	for i < end {
		switch p.src[i] {
		case ' ', '\t', '\r', '\n', ',', ':':
			i++
			continue
		}
		break
	}
	return i
}

func (p *parser) value(tok jsontext.Token, start, end int) (syntax.Node, error) {
	switch tok.Kind() {
	case '{':
		return p.object(start)
	case '[':
		return p.array(start)
	case '"':
		return &syntax.Literal{
			LitKind: syntax.LiteralString,
			Raw:     string(p.src[start:end]),
			Value:   tok.String(),
			Loc:     p.index.Span(start, end),
		}, nil
	case '0':
		return &syntax.Literal{
			LitKind: syntax.LiteralNumber,
			Raw:     string(p.src[start:end]),
			Value:   syntax.FormatNumber(tok.Float()),
			Loc:     p.index.Span(start, end),
		}, nil
	case 't', 'f':
		return &syntax.Literal{
			LitKind: syntax.LiteralBoolean,
			Raw:     string(p.src[start:end]),
			Value:   string(p.src[start:end]),
			Loc:     p.index.Span(start, end),
		}, nil
	case 'n':
		return &syntax.Literal{
			LitKind: syntax.LiteralNull,
			Raw:     "null",
			Value:   "null",
			Loc:     p.index.Span(start, end),
		}, nil
	default:
		return nil, p.errorAt(start, fmt.Errorf("unexpected token %v", tok.Kind()))
	}
}

func (p *parser) object(start int) (*syntax.Object, error) {
	obj := &syntax.Object{}
	for {
		tok, tokStart, tokEnd, err := p.next()
		if err != nil {
			return nil, p.eofAsUnexpected(err)
		}
		if tok.Kind() == '}' {
			obj.Loc = p.index.Span(start, tokEnd)
			return obj, nil
		}

		key, err := p.value(tok, tokStart, tokEnd)
		if err != nil {
			return nil, err
		}

		tok, valStart, valEnd, err := p.next()
		if err != nil {
			return nil, p.eofAsUnexpected(err)
		}
		val, err := p.value(tok, valStart, valEnd)
		if err != nil {
			return nil, err
		}

		obj.Properties = append(obj.Properties, &syntax.Property{
			PropKind: syntax.PropertyKeyValue,
			Key:      key,
			Value:    val,
			Loc:      p.index.Span(tokStart, val.Span().End.Offset),
		})
	}
}

func (p *parser) array(start int) (*syntax.Array, error) {
	arr := &syntax.Array{}
	for {
		tok, tokStart, tokEnd, err := p.next()
		if err != nil {
			return nil, p.eofAsUnexpected(err)
		}
		if tok.Kind() == ']' {
			arr.Loc = p.index.Span(start, tokEnd)
			return arr, nil
		}

		elem, err := p.value(tok, tokStart, tokEnd)
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)
	}
}

func (p *parser) eofAsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return p.errorAt(len(p.src), io.ErrUnexpectedEOF)
	}
	return err
}

func (p *parser) wrap(err error) error {
	offset := p.prevEnd
	var synErr *jsontext.SyntacticError
	if errors.As(err, &synErr) {
		offset = int(synErr.ByteOffset)
	}
	return p.errorAt(offset, err)
}

func (p *parser) errorAt(offset int, err error) error {
	return &syntax.ParseError{Pos: p.index.Position(offset), Err: err}
}
