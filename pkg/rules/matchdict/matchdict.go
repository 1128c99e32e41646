// Package matchdict implements the match-dictionaries rule: every object
// literal in a dictionary file must carry exactly the configured keys.
package matchdict

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dkoosis/dictlint/pkg/keys"
	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/syntax"
)

// Name is the rule name within its plugin.
const Name = "match-dictionaries"

// Comparison modes selected with the "mode" setting.
const (
	ModeLegacy    = "legacy"
	ModeSymmetric = "symmetric"
)

// Rule compares each object literal's keys against the reference key list
// given as the rule's single option.
type Rule struct{}

// New returns the rule.
func New() *Rule {
	return &Rule{}
}

// Meta implements lint.Rule. The options must be an array holding exactly
// one array.
func (*Rule) Meta() lint.RuleMeta {
	return lint.RuleMeta{
		Description: "require dictionary objects to contain exactly the reference keys",
		Schema: &lint.Schema{
			Type:        "array",
			MinItems:    lint.IntPtr(1),
			MaxItems:    lint.IntPtr(1),
			PrefixItems: []*lint.Schema{{Type: "array"}},
		},
	}
}

// Create implements lint.Rule.
func (*Rule) Create(ctx *lint.RuleContext) lint.Visitor {
	return &checker{
		ctx:       ctx,
		reference: ReferenceKeys(ctx.Options),
		symmetric: ctx.Setting("mode", ModeLegacy) == ModeSymmetric,
	}
}

type checker struct {
	ctx       *lint.RuleContext
	reference []string
	symmetric bool
}

func (c *checker) Visit(node syntax.Node) {
	obj, ok := node.(*syntax.Object)
	if !ok {
		return
	}

	candidate := KeyList(obj)
	if c.symmetric {
		for _, r := range keys.ClassifySymmetric(c.reference, candidate) {
			c.ctx.Report(obj, r.Message())
		}
		return
	}

	if r := keys.Classify(c.reference, candidate); !r.Empty() {
		c.ctx.Report(obj, r.Message())
	}
}

// KeyList extracts the statically known keys of obj: plain, non-computed
// key/value entries whose key is a string or number literal. Empty keys are
// dropped.
func KeyList(obj *syntax.Object) []string {
	var list []string
	for _, p := range obj.Properties {
		if p.PropKind != syntax.PropertyKeyValue || p.Computed {
			continue
		}
		lit, ok := p.Key.(*syntax.Literal)
		if !ok {
			continue
		}
		if lit.LitKind != syntax.LiteralString && lit.LitKind != syntax.LiteralNumber {
			continue
		}
		if lit.Value != "" {
			list = append(list, lit.Value)
		}
	}
	return list
}

// ErrNoDictionary is returned when a dictionary file holds no object literal.
var ErrNoDictionary = errors.New("no object literal found")

// DictionaryKeys returns the Key List of the first object literal in doc,
// in pre-order.
func DictionaryKeys(doc *syntax.Document) ([]string, error) {
	var found *syntax.Object
	syntax.Inspect(doc, func(n syntax.Node) bool {
		if found != nil {
			return false
		}
		if obj, ok := n.(*syntax.Object); ok {
			found = obj
			return false
		}
		return true
	})
	if found == nil {
		return nil, ErrNoDictionary
	}
	return KeyList(found), nil
}

// LoadDictionaryKeys parses the dictionary file at path with p and returns
// the keys of its first object literal.
func LoadDictionaryKeys(ctx context.Context, path string, p lint.Parser) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	doc, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	list, err := DictionaryKeys(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ReferenceKeys reads the reference key list from the rule options. Options
// are validated before rules run, so anything but an array in options[0]
// yields an empty list.
func ReferenceKeys(options []any) []string {
	if len(options) == 0 {
		return nil
	}
	raw, ok := options[0].([]any)
	if !ok {
		return nil
	}
	list := make([]string, 0, len(raw))
	for _, v := range raw {
		list = append(list, stringify(v))
	}
	return list
}

// stringify converts a decoded option value to a key name.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return syntax.FormatNumber(val)
	case float32:
		return syntax.FormatNumber(float64(val))
	case int:
		return syntax.FormatNumber(float64(val))
	case int64:
		return syntax.FormatNumber(float64(val))
	case uint64:
		return syntax.FormatNumber(float64(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}
