package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNoUpdateFields     = errors.New("no fields to update")
	ErrUnknownUpdateField = errors.New("unknown update field")
)

// Field is one supplied value of a partial update, keyed by its logical
// (payload) name.
type Field struct {
	Name  string
	Value any
}

// PartialUpdate is the SET clause of an UPDATE built from the supplied
// fields only.
type PartialUpdate struct {
	// SetClause looks like `"first_name"=$1, "is_admin"=$2`.
	SetClause string
	// Values are bound in SetClause order.
	Values []any
}

// NextParam returns the first placeholder not used by SetClause, for the
// WHERE condition that follows it.
func (p *PartialUpdate) NextParam() string {
	return "$" + strconv.Itoa(len(p.Values)+1)
}

// Args returns Values followed by extra, ready to pass to Exec or QueryRow.
func (p *PartialUpdate) Args(extra ...any) []any {
	args := make([]any, 0, len(p.Values)+len(extra))
	args = append(args, p.Values...)
	return append(args, extra...)
}

// BuildPartialUpdate maps each field name through columns and numbers the
// placeholders from $1 in field order. Names missing from columns are
// rejected, so column identifiers never come from user input.
func BuildPartialUpdate(fields []Field, columns map[string]string) (*PartialUpdate, error) {
	if len(fields) == 0 {
		return nil, ErrNoUpdateFields
	}

	assignments := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))

	for i, f := range fields {
		column, ok := columns[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUpdateField, f.Name)
		}
		assignments = append(assignments, pgx.Identifier{column}.Sanitize()+"=$"+strconv.Itoa(i+1))
		values = append(values, f.Value)
	}

	return &PartialUpdate{
		SetClause: strings.Join(assignments, ", "),
		Values:    values,
	}, nil
}
