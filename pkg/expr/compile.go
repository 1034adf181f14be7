// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package expr

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TimestampFormat is the sortable text form used for time literals and for
// every timestamp column in the store.
const TimestampFormat = "2006-01-02 15:04:05.000000"

// Compile renders e as a boolean SQLite predicate over the JSON document held
// in column. The second result is false when e is nil or cannot be compiled;
// callers then omit the filter instead of matching nothing.
func Compile(e *Expr, column string) (string, bool) {
	if e == nil {
		return "", false
	}
	return compile(e, column)
}

func compile(e *Expr, column string) (string, bool) {
	switch e.Operator {
	case And, Or:
		return compileLogical(e, column)
	case "":
		return "", false
	}

	if !e.Operator.Valid() {
		return "", false
	}

	left, ok := leftOperand(e.Left, column)
	if !ok {
		return "", false
	}

	switch e.Operator {
	case IsNull:
		return left + " IS NULL", true
	case IsNotNull:
		return left + " IS NOT NULL", true
	case In, NotIn:
		return compileMembership(left, e.Operator, e.Right)
	case Contains, ContainsNot, StartsWith, StartsWithNot, EndsWith, EndsWithNot:
		return compileText(left, e.Operator, e.Right)
	}

	if e.Right == nil {
		switch e.Operator {
		case Equals:
			return left + " IS NULL", true
		case NotEquals:
			return left + " IS NOT NULL", true
		default:
			return "", false
		}
	}

	right, ok := rightOperand(e.Right, column)
	if !ok {
		return "", false
	}

	switch e.Operator {
	case Equals:
		return left + " = " + right, true
	case NotEquals:
		return "(" + left + " IS NULL OR " + left + " <> " + right + ")", true
	case GreaterThan:
		return left + " > " + right, true
	case GreaterThanOrEqualTo:
		return left + " >= " + right, true
	case LessThan:
		return left + " < " + right, true
	case LessThanOrEqualTo:
		return left + " <= " + right, true
	}
	return "", false
}

// compileLogical drops an uncompilable conjunct of And, widening the match.
// Dropping a disjunct of Or would narrow it, so Or fails as a whole.
func compileLogical(e *Expr, column string) (string, bool) {
	if e.Right == nil {
		return "", false
	}

	left, lok := nested(e.Left, column)
	right, rok := nested(e.Right, column)

	if e.Operator == Or {
		if !lok || !rok {
			return "", false
		}
		return "(" + left + " OR " + right + ")", true
	}

	switch {
	case lok && rok:
		return "(" + left + " AND " + right + ")", true
	case lok:
		return left, true
	case rok:
		return right, true
	default:
		return "", false
	}
}

func nested(v any, column string) (string, bool) {
	switch x := v.(type) {
	case *Expr:
		if x == nil {
			return "", false
		}
		return compile(x, column)
	case Expr:
		return compile(&x, column)
	default:
		return "", false
	}
}

func leftOperand(v any, column string) (string, bool) {
	switch x := v.(type) {
	case string:
		path, ok := Path(x)
		if !ok {
			return "", false
		}
		return "json_extract(" + column + ", '" + path + "')", true
	case *Expr, Expr:
		inner, ok := nested(x, column)
		if !ok {
			return "", false
		}
		return "(" + inner + ")", true
	default:
		return "", false
	}
}

func rightOperand(v any, column string) (string, bool) {
	switch x := v.(type) {
	case *Expr, Expr:
		inner, ok := nested(x, column)
		if !ok {
			return "", false
		}
		return "(" + inner + ")", true
	default:
		return Literal(v)
	}
}

func compileMembership(left string, op Operator, right any) (string, bool) {
	if right == nil {
		return "", false
	}
	rv := reflect.ValueOf(right)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return "", false
	}

	items := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		lit, ok := Literal(rv.Index(i).Interface())
		if !ok {
			return "", false
		}
		items = append(items, lit)
	}
	list := "(" + strings.Join(items, ", ") + ")"

	if op == NotIn {
		return "(" + left + " IS NULL OR " + left + " NOT IN " + list + ")", true
	}
	return left + " IN " + list, true
}

func compileText(left string, op Operator, right any) (string, bool) {
	s, ok := right.(string)
	if !ok {
		return "", false
	}
	cleaned := clean(s)
	quoted := "'" + escapeQuotes(cleaned) + "'"
	n := utf8.RuneCountInString(cleaned)

	if n == 0 {
		switch op {
		case Contains, StartsWith, EndsWith:
			return left + " IS NOT NULL", true
		default:
			return left + " IS NULL", true
		}
	}

	switch op {
	case Contains:
		return "instr(" + left + ", " + quoted + ") > 0", true
	case ContainsNot:
		return "(" + left + " IS NULL OR instr(" + left + ", " + quoted + ") = 0)", true
	case StartsWith:
		return "substr(" + left + ", 1, " + strconv.Itoa(n) + ") = " + quoted, true
	case StartsWithNot:
		return "(" + left + " IS NULL OR substr(" + left + ", 1, " + strconv.Itoa(n) + ") <> " + quoted + ")", true
	case EndsWith:
		return "substr(" + left + ", -" + strconv.Itoa(n) + ") = " + quoted, true
	case EndsWithNot:
		return "(" + left + " IS NULL OR substr(" + left + ", -" + strconv.Itoa(n) + ") <> " + quoted + ")", true
	}
	return "", false
}

// Path normalizes a property path to "$.A.B" form, sanitizing each segment.
func Path(p string) (string, bool) {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return "", false
	}

	segments := strings.Split(p, ".")
	for i, seg := range segments {
		seg = Sanitize(seg)
		if seg == "" {
			return "", false
		}
		segments[i] = seg
	}
	return "$." + strings.Join(segments, "."), true
}

// Literal renders v as a SQL literal. Times use TimestampFormat, numbers are
// unquoted, booleans become 1 or 0 (the values json_extract yields for JSON
// booleans) and every other scalar is sanitized and single-quoted.
func Literal(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "NULL", true
	case time.Time:
		return "'" + x.UTC().Format(TimestampFormat) + "'", true
	case *time.Time:
		if x == nil {
			return "NULL", true
		}
		return "'" + x.UTC().Format(TimestampFormat) + "'", true
	case json.Number:
		if _, err := strconv.ParseFloat(x.String(), 64); err == nil {
			return x.String(), true
		}
		return quote(x.String()), true
	case string:
		return quote(x), true
	case []byte:
		return quote(string(x)), true
	case fmt.Stringer:
		return quote(x.String()), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return "1", true
		}
		return "0", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case reflect.String:
		return quote(rv.String()), true
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL", true
		}
		return Literal(rv.Elem().Interface())
	default:
		return "", false
	}
}

// Sanitize strips control characters other than CR and LF, collapses SQL
// comment delimiters until none remain and doubles single quotes.
func Sanitize(s string) string {
	return escapeQuotes(clean(s))
}

func quote(s string) string {
	return "'" + Sanitize(s) + "'"
}

func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	for {
		next := strings.ReplaceAll(s, "--", "-")
		next = strings.ReplaceAll(next, "/*", "/")
		next = strings.ReplaceAll(next, "*/", "*")
		if next == s {
			return s
		}
		s = next
	}
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
