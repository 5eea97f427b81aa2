package execute

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"

	"field-assembler/internal/analyze"
	"field-assembler/internal/chain"
	"field-assembler/internal/container"
	"field-assembler/internal/diagnostic"
	"field-assembler/internal/metrics"
	"field-assembler/internal/plan"
)

// Pending is one target awaiting one assemble operation.
type Pending struct {
	Target    reflect.Value
	Operation *plan.AssembleOperation
}

// Orchestrator performs batched fetches for a set of pending pairs and
// writes the results back through the accessor chain.
type Orchestrator struct {
	chain          *chain.Chain
	logger         *slog.Logger
	metrics        *metrics.Metrics
	maxConcurrency int
}

// NewOrchestrator creates an orchestrator writing through c.
func NewOrchestrator(c *chain.Chain, logger *slog.Logger, m *metrics.Metrics, maxConcurrency int) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	if maxConcurrency <= 0 {
		maxConcurrency = -1
	}

	return &Orchestrator{
		chain:          c,
		logger:         logger.WithGroup("execute.Orchestrator"),
		metrics:        m,
		maxConcurrency: maxConcurrency,
	}
}

type groupKey struct {
	container string
	namespace string
}

// fetchGroup is one fetch call: a container, a namespace and the
// deduplicated keys of every pair that depends on it.
type fetchGroup struct {
	key       groupKey
	container container.Container
	keys      []any
	seen      map[any]struct{}
	found     map[any]any
	err       error
}

func (g *fetchGroup) add(keys []any) {
	for _, k := range keys {
		if _, ok := g.seen[k]; ok {
			continue
		}

		g.seen[k] = struct{}{}
		g.keys = append(g.keys, k)
	}
}

// item is a pending pair with its lookup key.
type item struct {
	Pending
	raw   any
	keys  []any
	group *fetchGroup
}

// Process runs one pass over pending. When concurrent is set, the fetch
// groups are issued in parallel, bounded by the configured concurrency.
// Writes are always applied in the order of pending.
func (o *Orchestrator) Process(ctx context.Context, pending []Pending, diags *diagnostic.Collector, concurrent bool) {
	items, groups := o.gather(pending)
	if len(items) == 0 {
		return
	}

	if concurrent && len(groups) > 1 {
		var g errgroup.Group

		g.SetLimit(o.maxConcurrency)

		for _, fg := range groups {
			g.Go(func() error {
				o.fetch(ctx, fg, diags)
				return nil
			})
		}

		_ = g.Wait()
	} else {
		for _, fg := range groups {
			o.fetch(ctx, fg, diags)
		}
	}

	for _, it := range items {
		o.scatter(it, diags)
	}
}

// gather computes the lookup keys of every pair and groups them. Pairs
// without a key are dropped; introspective pairs carry no group.
func (o *Orchestrator) gather(pending []Pending) ([]*item, []*fetchGroup) {
	var (
		items  = make([]*item, 0, len(pending))
		groups []*fetchGroup
		byKey  = map[groupKey]*fetchGroup{}
	)

	for _, p := range pending {
		op := p.Operation
		raw, hasKey := o.readKey(p.Target, op)

		if op.Container.Scope() == container.ScopeSelf {
			items = append(items, &item{Pending: p, raw: raw})
			continue
		}

		if !hasKey {
			continue
		}

		keys := op.Assembler.Keys(raw)
		if len(keys) == 0 {
			continue
		}

		gk := groupKey{container: op.Container.ID()}
		if op.Container.Scope() == container.ScopeNamespace {
			gk.namespace = op.Namespace
		}

		fg, ok := byKey[gk]
		if !ok {
			fg = &fetchGroup{key: gk, container: op.Container, seen: map[any]struct{}{}}
			byKey[gk] = fg
			groups = append(groups, fg)
		}

		fg.add(keys)
		items = append(items, &item{Pending: p, raw: raw, keys: keys, group: fg})
	}

	return items, groups
}

// readKey reads the operation's field, or the first alias holding a value.
func (o *Orchestrator) readKey(target reflect.Value, op *plan.AssembleOperation) (any, bool) {
	for _, name := range op.FieldNames() {
		v, ok := o.chain.Read(target, name)
		if !ok || analyze.IsNil(v) || !v.CanInterface() {
			continue
		}

		return v.Interface(), true
	}

	return nil, false
}

func (o *Orchestrator) fetch(ctx context.Context, fg *fetchGroup, diags *diagnostic.Collector) {
	start := time.Now()
	found, err := get(ctx, fg)
	o.metrics.ObserveFetch(fg.key.container, fg.key.namespace, len(fg.keys), time.Since(start), err)

	if err != nil {
		fg.err = err

		o.logger.Warn("container fetch failed",
			"container", fg.key.container,
			"namespace", fg.key.namespace,
			"keys", len(fg.keys),
			"error", err)

		diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Code:     diagnostic.CodeFetchFailed,
			Message:  fmt.Sprintf("container %q namespace %q: %v", fg.key.container, fg.key.namespace, err),
		})

		return
	}

	fg.found = found

	o.logger.Debug("fetched",
		"container", fg.key.container,
		"namespace", fg.key.namespace,
		"keys", len(fg.keys),
		"found", len(found))
}

func (o *Orchestrator) scatter(it *item, diags *diagnostic.Collector) {
	op := it.Operation

	var source any

	switch {
	case it.group == nil:
		if !it.Target.CanInterface() {
			return
		}

		source = it.Target.Interface()
	case it.group.err != nil:
		return
	default:
		v, ok := op.Assembler.Value(it.keys, it.group.found)
		if !ok {
			return
		}

		source = v
	}

	for _, m := range op.Mappings {
		t := &chain.Transfer{
			Target:         it.Target,
			Source:         source,
			Key:            it.raw,
			Field:          op.Field,
			Resource:       m.Resource,
			Reference:      m.Reference,
			Expression:     m.Expression,
			ExpressionType: m.ExpressionType,
		}

		written, err := o.apply(t)

		switch {
		case err != nil:
			o.metrics.ObserveWrite(metrics.WriteFailed)

			typ := ownerType(op)

			o.logger.Warn("write failed",
				"type", typ,
				"field", op.Field,
				"reference", t.Destination(),
				"error", err)

			diags.Warn(diagnostic.CodeWriteFailed, err.Error(), typ, t.Destination())
		case written:
			o.metrics.ObserveWrite(metrics.WriteWritten)
		default:
			o.metrics.ObserveWrite(metrics.WriteSkipped)
		}
	}
}

// get fetches the group's keys, turning a container panic into an error.
func get(ctx context.Context, fg *fetchGroup) (found map[any]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			found, err = nil, fmt.Errorf("container panicked: %v", r)
		}
	}()

	return fg.container.Get(ctx, fg.key.namespace, fg.keys)
}

func (o *Orchestrator) apply(t *chain.Transfer) (written bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			written, err = false, fmt.Errorf("write %s panicked: %v", t.Destination(), r)
		}
	}()

	return o.chain.Apply(t)
}

func ownerType(op *plan.AssembleOperation) string {
	if op.Owner == nil {
		return ""
	}

	return op.Owner.Type.ID.Short()
}
