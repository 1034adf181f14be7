// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package expr describes filter expressions over an entity's JSON data
// document and compiles them into SQLite predicates.
package expr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator names the comparison or combinator applied by an Expr.
// Operators serialize to JSON as their names.
type Operator string

const (
	And                  Operator = "And"
	Or                   Operator = "Or"
	Equals               Operator = "Equals"
	NotEquals            Operator = "NotEquals"
	In                   Operator = "In"
	NotIn                Operator = "NotIn"
	Contains             Operator = "Contains"
	ContainsNot          Operator = "ContainsNot"
	StartsWith           Operator = "StartsWith"
	StartsWithNot        Operator = "StartsWithNot"
	EndsWith             Operator = "EndsWith"
	EndsWithNot          Operator = "EndsWithNot"
	GreaterThan          Operator = "GreaterThan"
	GreaterThanOrEqualTo Operator = "GreaterThanOrEqualTo"
	LessThan             Operator = "LessThan"
	LessThanOrEqualTo    Operator = "LessThanOrEqualTo"
	IsNull               Operator = "IsNull"
	IsNotNull            Operator = "IsNotNull"
)

var validOperators = map[Operator]bool{
	And: true, Or: true, Equals: true, NotEquals: true, In: true, NotIn: true,
	Contains: true, ContainsNot: true, StartsWith: true, StartsWithNot: true,
	EndsWith: true, EndsWithNot: true, GreaterThan: true, GreaterThanOrEqualTo: true,
	LessThan: true, LessThanOrEqualTo: true, IsNull: true, IsNotNull: true,
}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	return validOperators[o]
}

// UnmarshalJSON rejects operator names that are not defined above.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("operator must be a string: %w", err)
	}
	op := Operator(s)
	if !op.Valid() {
		return fmt.Errorf("unknown operator %q", s)
	}
	*o = op
	return nil
}

// Expr is one node of a filter expression tree.
//
// Left is a property path ("$.A.B" or "A.B") or a nested *Expr. Right is a
// literal, a slice of literals (In, NotIn) or a nested *Expr.
type Expr struct {
	Left     any      `json:"Left"`
	Operator Operator `json:"Operator"`
	Right    any      `json:"Right,omitempty"`
}

// New builds an expression node.
func New(left any, op Operator, right any) *Expr {
	return &Expr{Left: left, Operator: op, Right: right}
}

// AndAlso returns a new expression requiring both e and other.
// A nil side is replaced by the other one.
func (e *Expr) AndAlso(other *Expr) *Expr {
	return combine(e, And, other)
}

// OrElse returns a new expression matching either e or other.
func (e *Expr) OrElse(other *Expr) *Expr {
	return combine(e, Or, other)
}

func combine(left *Expr, op Operator, right *Expr) *Expr {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return &Expr{Left: left, Operator: op, Right: right}
}

// String renders the expression for logs.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("(%s %s %s)", side(e.Left), e.Operator, side(e.Right))
}

func side(v any) string {
	switch x := v.(type) {
	case *Expr:
		return x.String()
	case string:
		return x
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}

// UnmarshalJSON decodes nested objects on either side into *Expr and keeps
// numbers as json.Number so integers survive without float rounding.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var raw struct {
		Left     json.RawMessage `json:"Left"`
		Operator Operator        `json:"Operator"`
		Right    json.RawMessage `json:"Right"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	left, err := decodeOperand(raw.Left)
	if err != nil {
		return fmt.Errorf("decoding Left: %w", err)
	}
	right, err := decodeOperand(raw.Right)
	if err != nil {
		return fmt.Errorf("decoding Right: %w", err)
	}

	e.Left = left
	e.Operator = raw.Operator
	e.Right = right
	return nil
}

func decodeOperand(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		nested := &Expr{}
		if err := json.Unmarshal(trimmed, nested); err != nil {
			return nil, err
		}
		return nested, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
