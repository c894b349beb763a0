// Package catalog loads named numbers from CUE files.
//
// A catalog file declares a top-level numbers struct:
//
//	numbers: {
//		three: value: 3
//		minusTwo: {value: -2, odd: false}
//	}
//
// Every entry is unified with the embedded #Number definition, so a
// parity flag that contradicts its value is a CUE conflict, not a
// runtime surprise.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/signum/internal/number"
)

//go:embed schema.cue
var schemaCUE string

// Entry is one named number.
type Entry struct {
	Name   string        `json:"name"`
	Number number.Number `json:"number"`
}

// Catalog is a set of entries sorted by name.
type Catalog struct {
	Entries []Entry `json:"entries"`
}

// Lookup returns the number bound to name.
func (c *Catalog) Lookup(name string) (number.Number, bool) {
	i := sort.Search(len(c.Entries), func(i int) bool { return c.Entries[i].Name >= name })
	if i < len(c.Entries) && c.Entries[i].Name == name {
		return c.Entries[i].Number, true
	}
	return number.Number{}, false
}

// CompileError carries the CUE position of a catalog problem.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads and compiles a catalog file.
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Compile(src, path)
}

// Compile compiles catalog source. filename is used in error positions.
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Number"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	numbersVal := v.LookupPath(cue.ParsePath("numbers"))
	if !numbersVal.Exists() {
		return nil, &CompileError{
			Field:   "numbers",
			Message: "numbers is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := numbersVal.Fields()
	if err != nil {
		return nil, formatCUEError("numbers", err)
	}

	cat := &Catalog{Entries: []Entry{}}
	for iter.Next() {
		name := iter.Label()
		entry := def.Unify(iter.Value())
		if err := entry.Validate(cue.Concrete(true)); err != nil {
			return nil, formatCUEError("numbers."+name, err)
		}

		var raw struct {
			Value int64 `json:"value"`
			Odd   bool  `json:"odd"`
		}
		if err := entry.Decode(&raw); err != nil {
			return nil, formatCUEError("numbers."+name, err)
		}

		cat.Entries = append(cat.Entries, Entry{
			Name:   name,
			Number: number.Construct(raw.Value, raw.Odd),
		})
	}

	sort.Slice(cat.Entries, func(i, j int) bool {
		return cat.Entries[i].Name < cat.Entries[j].Name
	})

	return cat, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(field string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: field, Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
