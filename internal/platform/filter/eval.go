package filter

import (
	"fmt"
	"strings"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Resolver returns a value for a field name.
type Resolver func(name string) (any, bool)

// Matcher is a parsed filter ready to be evaluated against many records.
type Matcher struct {
	source string
	expr   *expr.Expr
}

// Compile parses filterStr once for repeated evaluation.
func Compile(filterStr string, fields Fields) (Matcher, error) {
	parsed, err := Parse(filterStr, fields)
	if err != nil {
		return Matcher{}, err
	}
	return Matcher{source: strings.TrimSpace(filterStr), expr: parsed}, nil
}

// Empty reports whether the matcher accepts every record.
func (m Matcher) Empty() bool { return m.expr == nil }

// String returns the filter source text.
func (m Matcher) String() string { return m.source }

// Match evaluates the matcher against one record.
func (m Matcher) Match(resolve Resolver) (bool, error) {
	return Evaluate(m.expr, resolve)
}

// Evaluate evaluates a parsed filter expression against a resolver.
func Evaluate(e *expr.Expr, resolve Resolver) (bool, error) {
	if e == nil {
		return true, nil
	}

	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_CallExpr:
		return evalCall(kind.CallExpr, resolve)
	case *expr.Expr_IdentExpr:
		value, ok := resolve(kind.IdentExpr.GetName())
		if !ok {
			return false, fmt.Errorf("unknown field: %s", kind.IdentExpr.GetName())
		}
		b, isBool := value.(bool)
		if !isBool {
			return false, fmt.Errorf("field %s is not boolean", kind.IdentExpr.GetName())
		}
		return b, nil
	default:
		return false, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

var comparisons = map[string]func(int) bool{
	"=":  func(c int) bool { return c == 0 },
	"!=": func(c int) bool { return c != 0 },
	"<":  func(c int) bool { return c < 0 },
	"<=": func(c int) bool { return c <= 0 },
	">":  func(c int) bool { return c > 0 },
	">=": func(c int) bool { return c >= 0 },
}

func evalCall(call *expr.Expr_Call, resolve Resolver) (bool, error) {
	fn := strings.TrimSuffix(strings.TrimPrefix(call.GetFunction(), "_"), "_")
	switch fn {
	case "&&", "AND", "FUZZY":
		return evalAnd(call.GetArgs(), resolve)
	case "||", "OR":
		return evalOr(call.GetArgs(), resolve)
	case "!", "NOT", "-":
		return evalNot(call.GetArgs(), resolve)
	case ":":
		return evalHas(call.GetArgs(), resolve)
	case "==":
		fn = "="
	}
	test, ok := comparisons[fn]
	if !ok {
		return false, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
	cmp, err := compareArgs(call.GetArgs(), resolve)
	if err != nil {
		return false, err
	}
	return test(cmp), nil
}

func evalAnd(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("AND requires 2 arguments")
	}
	left, err := Evaluate(args[0], resolve)
	if err != nil || !left {
		return left, err
	}
	return Evaluate(args[1], resolve)
}

func evalOr(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("OR requires 2 arguments")
	}
	left, err := Evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	if left {
		return true, nil
	}
	return Evaluate(args[1], resolve)
}

func evalNot(args []*expr.Expr, resolve Resolver) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("NOT requires 1 argument")
	}
	value, err := Evaluate(args[0], resolve)
	if err != nil {
		return false, err
	}
	return !value, nil
}

// evalHas implements the ":" operator as a case-insensitive substring test.
func evalHas(args []*expr.Expr, resolve Resolver) (bool, error) {
	left, right, err := resolveArgs(args, resolve)
	if err != nil {
		return false, err
	}
	l, lok := left.(string)
	r, rok := right.(string)
	if !lok || !rok {
		return false, fmt.Errorf("has operator requires string operands")
	}
	return strings.Contains(strings.ToLower(l), strings.ToLower(r)), nil
}

func compareArgs(args []*expr.Expr, resolve Resolver) (int, error) {
	left, right, err := resolveArgs(args, resolve)
	if err != nil {
		return 0, err
	}
	return compareValues(left, right)
}

func resolveArgs(args []*expr.Expr, resolve Resolver) (any, any, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, nil, err
	}
	left, ok := resolve(field)
	if !ok {
		return nil, nil, fmt.Errorf("unknown field: %s", field)
	}
	right, err := extractValue(args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.GetName(), nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func compareValues(left any, right any) (int, error) {
	if l, ok := left.(string); ok {
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(l, r), nil
	}
	if l, ok := left.(bool); ok {
		r, ok := right.(bool)
		if !ok {
			return 0, fmt.Errorf("type mismatch: bool vs %T", right)
		}
		return compareBools(l, r), nil
	}
	l, ok := toFloat(left)
	if !ok {
		return 0, fmt.Errorf("unsupported value type: %T", left)
	}
	r, ok := toFloat(right)
	if !ok {
		return 0, fmt.Errorf("type mismatch: number vs %T", right)
	}
	switch {
	case l < r:
		return -1, nil
	case l > r:
		return 1, nil
	default:
		return 0, nil
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func compareBools(left, right bool) int {
	if left == right {
		return 0
	}
	if !left && right {
		return -1
	}
	return 1
}
