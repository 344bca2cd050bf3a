package flow

import (
	"clientbook/internal/types"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// Filter selects client records with a JMESPath expression evaluated against each record's
// JSON form, e.g. "grade == 'A' && contactMethod == 'message'".
// A record matches only when the expression yields boolean true.
type Filter struct {
	expr *jmespath.JMESPath
}

func CompileFilter(expression string) (*Filter, error) {
	expr, err := jmespath.Compile(expression)
	if err != nil {
		return nil, types.Err(types.ErrValidation, err, "jmespath filter")
	}
	return &Filter{expr: expr}, nil
}

func (f *Filter) Match(rec types.ClientRecord) (bool, error) {
	doc, err := toDocument(rec)
	if err != nil {
		return false, err
	}
	v, err := f.expr.Search(doc)
	if err != nil {
		return false, fmt.Errorf("jmespath: %w", err)
	}
	matched, ok := v.(bool)
	return ok && matched, nil
}

// Apply keeps the matching records in collection order.
func (f *Filter) Apply(snapshot []types.ClientRecord) ([]types.ClientRecord, error) {
	out := make([]types.ClientRecord, 0, len(snapshot))
	for _, c := range snapshot {
		ok, err := f.Match(c)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// toDocument turns a record into the generic map form JMESPath walks.
func toDocument(rec types.ClientRecord) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
