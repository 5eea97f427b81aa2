package chain

import (
	"field-assembler/internal/expression"
)

// Interceptor may rewrite the value of a transfer between read and write.
// Every interceptor runs, in order.
type Interceptor interface {
	Intercept(t *Transfer, value any, found bool) (any, bool, error)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(t *Transfer, value any, found bool) (any, bool, error)

// Intercept implements Interceptor.
func (f InterceptorFunc) Intercept(t *Transfer, value any, found bool) (any, bool, error) {
	return f(t, value, found)
}

// ExpressionInterceptor replaces the value with the result of the transfer's
// override expression. Transfers without an expression pass through.
type ExpressionInterceptor struct {
	Evaluator *expression.Evaluator
}

// Intercept implements Interceptor.
func (e ExpressionInterceptor) Intercept(t *Transfer, value any, found bool) (any, bool, error) {
	if t.Expression == "" || e.Evaluator == nil {
		return value, found, nil
	}

	var target any
	if t.Target.IsValid() && t.Target.CanInterface() {
		target = t.Target.Interface()
	}

	out, err := e.Evaluator.Eval(t.Expression, t.ExpressionType, expression.Bindings{
		Target:    target,
		Source:    t.Source,
		Key:       t.Key,
		Resource:  t.Resource,
		Reference: t.Reference,
		Value:     value,
	})
	if err != nil {
		return nil, false, err
	}

	return out, out != nil, nil
}
