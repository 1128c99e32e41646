// Package syntax defines the tree that parsers produce and rules inspect.
//
// The tree is a closed set of node types. Rules select the variants they care
// about with a type switch and ignore the rest.
package syntax

// Kind identifies the variant of a Node.
type Kind int

// Node kinds, one per node type.
const (
	KindDocument   Kind = iota // *Document
	KindObject                 // *Object
	KindProperty               // *Property
	KindArray                  // *Array
	KindLiteral                // *Literal
	KindIdentifier             // *Identifier
	KindOther                  // *Other
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindObject:
		return "Object"
	case KindProperty:
		return "Property"
	case KindArray:
		return "Array"
	case KindLiteral:
		return "Literal"
	case KindIdentifier:
		return "Identifier"
	case KindOther:
		return "Other"
	default:
		return "unknown"
	}
}

// Node is implemented by every tree variant in this package.
type Node interface {
	Kind() Kind
	Span() Span
	Children() []Node
	node()
}

// Document is the root of a parsed chunk.
type Document struct {
	Body []Node
	Loc  Span
}

// Object is an object literal.
type Object struct {
	Properties []*Property
	Loc        Span
}

// PropertyKind distinguishes the entry forms an object literal can hold.
type PropertyKind int

const (
	// PropertyKeyValue is a plain `key: value` entry.
	PropertyKeyValue PropertyKind = iota
	// PropertyShorthand is `{ name }`.
	PropertyShorthand
	// PropertySpread is `{ ...rest }`.
	PropertySpread
	// PropertyMethod is `{ name() {} }` or an accessor.
	PropertyMethod
)

// Property is a single entry of an object literal. Key is nil for spreads.
type Property struct {
	PropKind PropertyKind
	Computed bool
	Key      Node
	Value    Node
	Loc      Span
}

// Array is an array literal.
type Array struct {
	Elements []Node
	Loc      Span
}

// LiteralKind identifies the type of a literal value.
type LiteralKind int

// Literal kinds.
const (
	LiteralString  LiteralKind = iota // decoded string contents
	LiteralNumber                     // JavaScript Number text, e.g. "16" for 0x10
	LiteralBoolean                    // "true" or "false"
	LiteralNull                       // "null"
	LiteralOther                      // any other scalar
)

// Literal is a scalar value. Value holds the decoded string for strings and
// the canonical text form for every other kind (see FormatNumber).
type Literal struct {
	LitKind LiteralKind
	Raw     string
	Value   string
	Loc     Span
}

// Identifier is a bare name, such as a non-quoted property key.
type Identifier struct {
	Name string
	Loc  Span
}

// Other wraps any construct that has no dedicated variant. Type carries the
// parser's own name for it.
type Other struct {
	Type  string
	Nodes []Node
	Loc   Span
}

func (*Document) Kind() Kind   { return KindDocument }
func (*Object) Kind() Kind     { return KindObject }
func (*Property) Kind() Kind   { return KindProperty }
func (*Array) Kind() Kind      { return KindArray }
func (*Literal) Kind() Kind    { return KindLiteral }
func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Other) Kind() Kind      { return KindOther }

func (n *Document) Span() Span   { return n.Loc }
func (n *Object) Span() Span     { return n.Loc }
func (n *Property) Span() Span   { return n.Loc }
func (n *Array) Span() Span      { return n.Loc }
func (n *Literal) Span() Span    { return n.Loc }
func (n *Identifier) Span() Span { return n.Loc }
func (n *Other) Span() Span      { return n.Loc }

func (n *Document) Children() []Node { return n.Body }

func (n *Object) Children() []Node {
	children := make([]Node, len(n.Properties))
	for i, p := range n.Properties {
		children[i] = p
	}
	return children
}

func (n *Property) Children() []Node {
	var children []Node
	if n.Key != nil {
		children = append(children, n.Key)
	}
	if n.Value != nil {
		children = append(children, n.Value)
	}
	return children
}

func (n *Array) Children() []Node    { return n.Elements }
func (*Literal) Children() []Node    { return nil }
func (*Identifier) Children() []Node { return nil }
func (n *Other) Children() []Node    { return n.Nodes }

func (*Document) node()   {}
func (*Object) node()     {}
func (*Property) node()   {}
func (*Array) node()      {}
func (*Literal) node()    {}
func (*Identifier) node() {}
func (*Other) node()      {}

// Inspect traverses the tree rooted at n in depth-first pre-order. If fn
// returns false the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Inspect(child, fn)
	}
}
