package plan

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"field-assembler/internal/analyze"
	"field-assembler/internal/assemble"
	"field-assembler/internal/match"
	"field-assembler/internal/property"
	"field-assembler/internal/rules"
)

const maxSuggestions = 3

// DefaultDefaults returns the defaults used when none are configured.
func DefaultDefaults() Defaults {
	return Defaults{
		Assembler:    assemble.OneToOneID,
		Disassembler: assemble.FlattenID,
		Groups:       []string{rules.DefaultGroup},
	}
}

// Resolver turns declared rules into OperationConfigurations.
type Resolver struct {
	rules    rules.Source
	locator  Locator
	types    *analyze.Registry
	cache    *Cache
	defaults *Defaults
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTypes sets the registry used to resolve explicit nested type names.
func WithTypes(types *analyze.Registry) Option {
	return func(r *Resolver) {
		if types != nil {
			r.types = types
		}
	}
}

// WithCache sets the configuration cache.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithDefaults overrides the global defaults. Empty settings keep their default.
func WithDefaults(d Defaults) Option {
	return func(r *Resolver) {
		if d.Assembler != "" {
			r.defaults.Assembler = d.Assembler
		}

		if d.Disassembler != "" {
			r.defaults.Disassembler = d.Disassembler
		}

		if len(d.Groups) > 0 {
			r.defaults.Groups = d.Groups
		}
	}
}

// WithLogger sets the logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger.WithGroup("plan.Resolver")
		}
	}
}

// WithLogHandler creates a new logger with the specified handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Resolver) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("plan.Resolver")
		}
	}
}

// NewResolver creates a Resolver reading rules from src and locating
// components through locator.
func NewResolver(src rules.Source, locator Locator, opts ...Option) *Resolver {
	defaults := DefaultDefaults()

	r := &Resolver{
		rules:    src,
		locator:  locator,
		types:    analyze.NewRegistry(),
		cache:    NewCache(),
		defaults: &defaults,
		logger:   slog.Default().WithGroup("plan.Resolver"),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.locator == nil {
		r.locator = NewComponents(nil, nil)
	}

	return r
}

// Types returns the registry of Go types known to the resolver.
func (r *Resolver) Types() *analyze.Registry {
	return r.types
}

// Cache returns the configuration cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the configuration of t, resolving it (and every type it
// reaches) on a cache miss. Resolution is deterministic for a given set of
// rules; a failed resolution caches nothing.
func (r *Resolver) Resolve(t analyze.Type) (*OperationConfiguration, error) {
	if cfg, ok := r.cache.Get(t.ID); ok {
		return cfg, nil
	}

	pc := newParseContext()

	cfg, err := r.parse(pc, t)
	if err != nil {
		r.logger.Debug("resolution failed", "type", t.String(), "error", err)
		return nil, err
	}

	for _, c := range pc.order {
		r.cache.Put(c)
	}

	r.logger.Debug("resolved configuration",
		"type", t.String(),
		"assemble", len(cfg.AssembleOperations),
		"disassemble", len(cfg.DisassembleOperations),
		"configurations", len(pc.order))

	return cfg, nil
}

// ResolveName resolves a declared type name: a registered Go type when one
// matches, a logical type otherwise.
func (r *Resolver) ResolveName(name string) (*OperationConfiguration, error) {
	return r.Resolve(r.typeByName(name))
}

func (r *Resolver) typeByName(name string) analyze.Type {
	if t, ok := r.types.Lookup(name); ok {
		return t
	}

	return analyze.Named(name)
}

// parse builds the configuration of t within pc. A type already in pc is
// returned as is, complete or not; a cached type is reused.
func (r *Resolver) parse(pc *ParseContext, t analyze.Type) (*OperationConfiguration, error) {
	if cfg, ok := pc.get(t.ID); ok {
		return cfg, nil
	}

	if cfg, ok := r.cache.Get(t.ID); ok {
		return cfg, nil
	}

	cfg := &OperationConfiguration{Type: t, Defaults: r.defaults}
	pc.put(cfg)

	var (
		tr    *rules.TypeRules
		found bool
	)

	if r.rules != nil {
		tr, found = r.rules.Lookup(t.ID)
	}

	if !found {
		cfg.complete = true
		return cfg, nil
	}

	if err := checkConflicts(t, tr); err != nil {
		return nil, err
	}

	for i := range tr.Assemble {
		op, err := r.assembleOperation(cfg, &tr.Assemble[i])
		if err != nil {
			return nil, err
		}

		cfg.AssembleOperations = append(cfg.AssembleOperations, op)
	}

	for i := range tr.Disassemble {
		op, err := r.disassembleOperation(pc, cfg, &tr.Disassemble[i])
		if err != nil {
			return nil, err
		}

		cfg.DisassembleOperations = append(cfg.DisassembleOperations, op)
	}

	cfg.sortOperations()
	cfg.complete = true

	return cfg, nil
}

func checkConflicts(t analyze.Type, tr *rules.TypeRules) error {
	disassembled := make(map[string]struct{}, len(tr.Disassemble))
	for i := range tr.Disassemble {
		for _, name := range ruleFieldNames(tr.Disassemble[i].Field, tr.Disassemble[i].Aliases) {
			disassembled[analyze.FieldKey(t, name)] = struct{}{}
		}
	}

	for i := range tr.Assemble {
		for _, name := range ruleFieldNames(tr.Assemble[i].Field, tr.Assemble[i].Aliases) {
			if _, ok := disassembled[analyze.FieldKey(t, name)]; ok {
				return conflict(t.String(), tr.Assemble[i].Field, "field declares both assemble and disassemble rules")
			}
		}
	}

	return nil
}

func ruleFieldNames(field string, aliases []string) []string {
	return lo.Compact(append([]string{field}, aliases...))
}

func (r *Resolver) assembleOperation(cfg *OperationConfiguration, rule *rules.AssembleRule) (*AssembleOperation, error) {
	typ := cfg.Type.String()

	if err := checkField(cfg.Type, rule.Field, rule.Aliases); err != nil {
		return nil, err
	}

	c, ok := r.locator.Container(rule.Container)
	if !ok {
		return nil, missing(typ, rule.Field, fmt.Sprintf("unknown container %q", rule.Container),
			match.Suggest(rule.Container, r.locator.Containers(), maxSuggestions))
	}

	asmID := rule.Assembler
	if asmID == "" {
		asmID = r.defaults.Assembler
	}

	asm, ok := r.locator.Assembler(asmID)
	if !ok {
		return nil, missing(typ, rule.Field, fmt.Sprintf("unknown assembler %q", asmID),
			match.Suggest(asmID, r.locator.Assemblers(), maxSuggestions))
	}

	mappings := make([]PropertyMapping, 0, max(len(rule.Props), 1))
	for _, p := range rule.Props {
		if p.Ref != "" {
			if err := checkField(cfg.Type, p.Ref, nil); err != nil {
				return nil, err
			}
		}

		mappings = append(mappings, PropertyMapping{
			Resource:       p.Src,
			Reference:      p.Ref,
			Expression:     p.Exp,
			ExpressionType: p.ExpType,
		})
	}

	if len(mappings) == 0 {
		mappings = append(mappings, PropertyMapping{})
	}

	return &AssembleOperation{
		Priority:  rule.Priority,
		Owner:     cfg,
		Field:     rule.Field,
		Aliases:   rule.Aliases,
		Namespace: rule.Namespace,
		Container: c,
		Assembler: asm,
		Mappings:  mappings,
		Groups:    r.groups(rule.Groups),
	}, nil
}

func (r *Resolver) disassembleOperation(
	pc *ParseContext,
	cfg *OperationConfiguration,
	rule *rules.DisassembleRule,
) (*DisassembleOperation, error) {
	typ := cfg.Type.String()

	if err := checkField(cfg.Type, rule.Field, rule.Aliases); err != nil {
		return nil, err
	}

	disID := rule.Disassembler
	if disID == "" {
		disID = r.defaults.Disassembler
	}

	dis, ok := r.locator.Disassembler(disID)
	if !ok {
		return nil, missing(typ, rule.Field, fmt.Sprintf("unknown disassembler %q", disID),
			match.Suggest(disID, r.locator.Disassemblers(), maxSuggestions))
	}

	op := &DisassembleOperation{
		Priority:     rule.Priority,
		Owner:        cfg,
		Field:        rule.Field,
		Aliases:      rule.Aliases,
		Disassembler: dis,
		Groups:       r.groups(rule.Groups),
	}

	if rule.IsDynamic() {
		return op, nil
	}

	nested, err := r.parse(pc, r.nestedType(cfg.Type, op.FieldNames(), rule.Type))
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", cfg.Type.ID.Short(), rule.Field, err)
	}

	op.Nested = nested

	return op, nil
}

// nestedType finds the type a disassemble rule names: the static element
// type of the field when it matches, else a registered Go type, else a
// logical type.
func (r *Resolver) nestedType(parent analyze.Type, fieldNames []string, name string) analyze.Type {
	if parent.IsStruct() {
		for _, fn := range fieldNames {
			fi, ok := analyze.LookupField(parent.Go, fn)
			if !ok {
				continue
			}

			if elem := analyze.ElemType(fi.Type); elem != nil && analyze.TypeIDOf(elem).Matches(name) {
				return analyze.TypeOf(elem)
			}

			break
		}
	}

	return r.typeByName(name)
}

func (r *Resolver) groups(declared []string) []string {
	if len(declared) > 0 {
		return declared
	}

	return r.defaults.Groups
}

// checkField verifies that a struct type declares the field or one of its
// aliases. Types without Go struct information accept any name.
func checkField(t analyze.Type, field string, aliases []string) error {
	if !t.IsStruct() {
		return nil
	}

	if property.Has(t.Go, field) {
		return nil
	}

	for _, a := range aliases {
		if property.Has(t.Go, a) {
			return nil
		}
	}

	return missing(t.String(), field, fmt.Sprintf("field %q not found", field),
		match.Suggest(field, analyze.FieldNames(t.Go), maxSuggestions))
}
