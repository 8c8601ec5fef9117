package dataset

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/yunseong/proptune/internal/ep"
)

// elementSchema constrains property-observation files before they reach the
// registry. Validation failures are fatal: a property file the engine wrote
// should never be malformed, so a mismatch means the input is the wrong
// kind of file entirely. The type disjunction comes from the ep pattern
// constants so the legal set has one definition.
var elementSchema = fmt.Sprintf(`
#Property: {
	key: string & !=""
	candidates?: [...string]
}

#Element: {
	ID:   int & >=0
	type: %q | %q
	properties: [...#Property]
}
`, ep.PatternVertex, ep.PatternEdge)

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

func compiledSchema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(elementSchema).LookupPath(cue.ParsePath("#Element"))
	})
	return schemaValue
}

// validateElement checks one property file's JSON against the element
// schema.
func validateElement(path string, data []byte) error {
	schema := compiledSchema()
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parsing property file %s: %w", path, err)
	}

	value := schema.Context().BuildExpr(expr)
	if err := value.Err(); err != nil {
		return fmt.Errorf("parsing property file %s: %w", path, err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid property file %s: %w", path, err)
	}
	return nil
}
