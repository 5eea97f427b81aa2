package execute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"field-assembler/internal/analyze"
	"field-assembler/internal/assemble"
	"field-assembler/internal/chain"
	"field-assembler/internal/diagnostic"
	"field-assembler/internal/metrics"
	"field-assembler/internal/plan"
)

// Resolver resolves the configuration of a runtime type.
type Resolver interface {
	Resolve(t analyze.Type) (*plan.OperationConfiguration, error)
}

// Report is the outcome of one execution.
type Report struct {
	// ID identifies the execution in logs.
	ID string
	// Instances is the number of instances processed, nested ones included.
	Instances int
	// Diagnostics holds the failures that were isolated during the run.
	Diagnostics diagnostic.Diagnostics
}

// Driver executes operation configurations.
type Driver struct {
	resolver       Resolver
	chain          *chain.Chain
	orchestrator   *Orchestrator
	strategy       Strategy
	maxConcurrency int
	metrics        *metrics.Metrics
	baseLogger     *slog.Logger
	logger         *slog.Logger
}

// NewDriver creates a driver. The resolver serves dynamic disassembly and
// ExecuteInferred; it may be nil when neither is used.
func NewDriver(resolver Resolver, opts ...Option) *Driver {
	d := &Driver{
		resolver:   resolver,
		baseLogger: slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.chain == nil {
		d.chain = chain.New(chain.WithLogger(d.baseLogger))
	}

	d.logger = d.baseLogger.WithGroup("execute.Driver")
	d.orchestrator = NewOrchestrator(d.chain, d.baseLogger, d.metrics, d.maxConcurrency)

	return d
}

// Strategy returns the assemble ordering strategy.
func (d *Driver) Strategy() Strategy {
	return d.strategy
}

// Execute enriches input with cfg. Input may be a pointer to a struct, a
// map, or a (nested) slice or array of those. Only a cancelled context
// returns an error; every other failure is reported in the diagnostics.
func (d *Driver) Execute(ctx context.Context, input any, cfg *plan.OperationConfiguration, groups []string) (*Report, error) {
	ex := d.newExecution(groups)
	start := time.Now()

	var err error
	if cfg != nil {
		err = d.run(ctx, ex, cfg, roots(input))
	}

	return d.finish(ex, start), err
}

// ExecuteInferred enriches input, resolving one configuration per runtime
// struct type found among the root instances. It fails before processing
// anything when a configuration cannot be resolved.
func (d *Driver) ExecuteInferred(ctx context.Context, input any, groups []string) (*Report, error) {
	if d.resolver == nil {
		return nil, errors.New("execute: no resolver configured")
	}

	p := partition(roots(input))

	cfgs := make([]*plan.OperationConfiguration, 0, len(p.types))
	for _, rt := range p.types {
		cfg, err := d.resolver.Resolve(analyze.TypeOf(rt))
		if err != nil {
			return nil, err
		}

		cfgs = append(cfgs, cfg)
	}

	ex := d.newExecution(groups)
	start := time.Now()

	if p.untyped > 0 {
		ex.diags.Warn(diagnostic.CodeUnresolvableShape,
			fmt.Sprintf("%d root instances have no inferable type", p.untyped), "", "")
	}

	for i, cfg := range cfgs {
		if err := d.run(ctx, ex, cfg, p.byType[p.types[i]]); err != nil {
			return d.finish(ex, start), err
		}
	}

	return d.finish(ex, start), nil
}

type visit struct {
	cfg *plan.OperationConfiguration
	typ reflect.Type
	ptr uintptr
}

// execution is the state of one Execute call.
type execution struct {
	id        string
	groups    []string
	logger    *slog.Logger
	diags     *diagnostic.Collector
	visited   map[visit]struct{}
	instances int
}

func (d *Driver) newExecution(groups []string) *execution {
	id := uuid.NewString()

	ex := &execution{
		id:      id,
		groups:  groups,
		logger:  d.logger.With("execution", id),
		diags:   &diagnostic.Collector{},
		visited: map[visit]struct{}{},
	}

	ex.logger.Debug("execution started", "strategy", d.strategy.String(), "groups", groups)

	return ex
}

func (d *Driver) finish(ex *execution, start time.Time) *Report {
	elapsed := time.Since(start)
	d.metrics.ObserveExecution(d.strategy.String(), elapsed)

	r := &Report{ID: ex.id, Instances: ex.instances, Diagnostics: ex.diags.Snapshot()}

	ex.logger.Debug("execution finished",
		"instances", r.Instances,
		"warnings", len(r.Diagnostics.Warnings),
		"duration", elapsed)

	return r
}

// run applies cfg to instances: nested fields first, then the instances'
// own assemble operations.
func (d *Driver) run(ctx context.Context, ex *execution, cfg *plan.OperationConfiguration, instances []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	targets := d.admit(ex, cfg, instances)
	if len(targets) == 0 {
		return nil
	}

	for _, op := range cfg.Disassemble(ex.groups) {
		nested := d.disassemble(targets, op)
		if len(nested) == 0 {
			continue
		}

		var err error
		if op.IsDynamic() {
			err = d.runDynamic(ctx, ex, op, nested)
		} else {
			err = d.run(ctx, ex, op.Nested, nested)
		}

		if err != nil {
			return err
		}
	}

	return d.assemble(ctx, ex, cfg, targets)
}

// admit returns the writable instances not yet processed for cfg in this
// execution. Pointers and maps are tracked by address, which stops cycles
// in the instance graph.
func (d *Driver) admit(ex *execution, cfg *plan.OperationConfiguration, instances []any) []reflect.Value {
	targets := make([]reflect.Value, 0, len(instances))
	rejected := 0

	for _, inst := range instances {
		v := reflect.ValueOf(inst)
		if analyze.IsNil(v) {
			continue
		}

		if v.Kind() != reflect.Ptr && v.Kind() != reflect.Map {
			rejected++
			continue
		}

		key := visit{cfg: cfg, typ: v.Type(), ptr: v.Pointer()}
		if _, seen := ex.visited[key]; seen {
			continue
		}

		ex.visited[key] = struct{}{}
		targets = append(targets, v)
	}

	if rejected > 0 {
		ex.diags.Warn(diagnostic.CodeUnresolvableShape,
			fmt.Sprintf("%d instances are neither pointers nor maps and cannot be written", rejected),
			cfg.Type.ID.Short(), "")
	}

	ex.instances += len(targets)

	return targets
}

func (d *Driver) disassemble(targets []reflect.Value, op *plan.DisassembleOperation) []any {
	var nested []any

	for _, t := range targets {
		for _, name := range op.FieldNames() {
			v, ok := d.chain.Read(t, name)
			if !ok || analyze.IsNil(v) {
				continue
			}

			nested = append(nested, op.Disassembler.Disassemble(v)...)

			break
		}
	}

	return nested
}

// runDynamic resolves one configuration per runtime type among nested and
// runs each over its own instances.
func (d *Driver) runDynamic(ctx context.Context, ex *execution, op *plan.DisassembleOperation, nested []any) error {
	owner := ""
	if op.Owner != nil {
		owner = op.Owner.Type.ID.Short()
	}

	p := partition(nested)
	if p.untyped > 0 {
		ex.diags.Warn(diagnostic.CodeUnresolvableShape,
			fmt.Sprintf("%d elements have no inferable type", p.untyped), owner, op.Field)
	}

	if d.resolver == nil {
		ex.diags.Warn(diagnostic.CodeResolveFailed, "no resolver for dynamic field", owner, op.Field)
		return nil
	}

	for _, rt := range p.types {
		cfg, err := d.resolver.Resolve(analyze.TypeOf(rt))
		if err != nil {
			ex.logger.Warn("dynamic resolution failed", "type", rt.String(), "field", op.Field, "error", err)
			ex.diags.Warn(diagnostic.CodeResolveFailed, err.Error(), owner, op.Field)

			continue
		}

		if cfg.IsEmpty() {
			continue
		}

		if err := d.run(ctx, ex, cfg, p.byType[rt]); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) assemble(ctx context.Context, ex *execution, cfg *plan.OperationConfiguration, targets []reflect.Value) error {
	ops := cfg.Assemble(ex.groups)
	if len(ops) == 0 {
		return nil
	}

	if d.strategy == Unordered {
		pending := make([]Pending, 0, len(ops)*len(targets))
		for _, op := range ops {
			pending = appendPending(pending, op, targets)
		}

		d.orchestrator.Process(ctx, pending, ex.diags, true)

		return nil
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.orchestrator.Process(ctx, appendPending(nil, op, targets), ex.diags, false)
	}

	return nil
}

func appendPending(pending []Pending, op *plan.AssembleOperation, targets []reflect.Value) []Pending {
	for _, t := range targets {
		pending = append(pending, Pending{Target: t, Operation: op})
	}

	return pending
}

// roots flattens the execution input into its instances.
func roots(input any) []any {
	return assemble.Flatten{}.Disassemble(reflect.ValueOf(input))
}

type partitioned struct {
	types   []reflect.Type // first-seen order
	byType  map[reflect.Type][]any
	untyped int
}

// partition groups instances by their struct type. Instances that are not
// structs (maps, scalars) have no inferable type.
func partition(instances []any) partitioned {
	p := partitioned{byType: map[reflect.Type][]any{}}

	for _, inst := range instances {
		rt := analyze.Deref(reflect.TypeOf(inst))
		if rt == nil || rt.Kind() != reflect.Struct {
			p.untyped++
			continue
		}

		if _, ok := p.byType[rt]; !ok {
			p.types = append(p.types, rt)
		}

		p.byType[rt] = append(p.byType[rt], inst)
	}

	return p
}
