package rules

import (
	"fmt"
	"slices"

	"field-assembler/internal/diagnostic"
	"field-assembler/internal/match"
)

// Catalog lists the component ids a rule may refer to.
type Catalog interface {
	Containers() []string
	Assemblers() []string
	Disassemblers() []string
}

// Validate checks a rule file structurally. When catalog is non-nil,
// component ids are checked against it as well. Type names are not
// checked here; they are resolved lazily against the registered types.
func Validate(f *File, catalog Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("rules_is_nil", "rule file is nil", "", "")
		return res
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		tr := &f.Types[i]

		if tr.Type == "" {
			res.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("types[%d] has no type name", i), "", "")
			continue
		}

		if _, ok := seenTypes[tr.Type]; ok {
			res.AddError(diagnostic.CodeDuplicateType, fmt.Sprintf("duplicate rules for type %q", tr.Type), tr.Type, "")
			continue
		}

		seenTypes[tr.Type] = struct{}{}

		validateTypeRules(res, tr, catalog)
	}

	return res
}

func validateTypeRules(res *diagnostic.Diagnostics, tr *TypeRules, catalog Catalog) {
	assembled := map[string]struct{}{}

	for i := range tr.Assemble {
		r := &tr.Assemble[i]
		if !validateFieldName(res, tr.Type, r.Field, r.Aliases) {
			continue
		}

		for _, key := range fieldKeys(r.Field, r.Aliases) {
			assembled[key] = struct{}{}
		}

		if r.Container == "" {
			res.AddError(diagnostic.CodeInvalidRule, "assemble rule has no container", tr.Type, r.Field)
		} else if catalog != nil {
			checkComponent(res, tr.Type, r.Field, "container", r.Container, catalog.Containers())
		}

		if r.Assembler != "" && catalog != nil {
			checkComponent(res, tr.Type, r.Field, "assembler", r.Assembler, catalog.Assemblers())
		}

		for _, p := range r.Props {
			validateProp(res, tr.Type, r.Field, p)
		}
	}

	disassembled := map[string]struct{}{}

	for i := range tr.Disassemble {
		r := &tr.Disassemble[i]
		if !validateFieldName(res, tr.Type, r.Field, r.Aliases) {
			continue
		}

		keys := fieldKeys(r.Field, r.Aliases)

		if containsAny(disassembled, keys) {
			res.AddError(diagnostic.CodeConfigConflict, "field is disassembled more than once", tr.Type, r.Field)
		}

		if containsAny(assembled, keys) {
			res.AddError(diagnostic.CodeConfigConflict, "field is both assembled and disassembled", tr.Type, r.Field)
		}

		for _, key := range keys {
			disassembled[key] = struct{}{}
		}

		if r.Disassembler != "" && catalog != nil {
			checkComponent(res, tr.Type, r.Field, "disassembler", r.Disassembler, catalog.Disassemblers())
		}
	}
}

// fieldKeys returns the spelling-insensitive forms of a rule's field and
// aliases. Go types may match further spellings through json tags; the
// resolver checks those once the type is known.
func fieldKeys(field string, aliases []string) []string {
	keys := make([]string, 0, 1+len(aliases))
	for _, name := range append([]string{field}, aliases...) {
		if name != "" {
			keys = append(keys, match.NormalizeIdent(name))
		}
	}

	return keys
}

func containsAny(set map[string]struct{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := set[k]; ok {
			return true
		}
	}

	return false
}

func validateFieldName(res *diagnostic.Diagnostics, typ, field string, aliases []string) bool {
	if field == "" {
		res.AddError(diagnostic.CodeInvalidRule, "rule has no field", typ, "")
		return false
	}

	for _, name := range append([]string{field}, aliases...) {
		if !IsValidName(name) {
			res.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("invalid field name %q", name), typ, field)
			return false
		}
	}

	return true
}

func validateProp(res *diagnostic.Diagnostics, typ, field string, p PropRule) {
	if p.Src != "" && !IsValidName(p.Src) {
		res.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("invalid prop source %q", p.Src), typ, field)
	}

	if p.Ref != "" && !IsValidName(p.Ref) {
		res.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("invalid prop reference %q", p.Ref), typ, field)
	}

	if !slices.Contains(KnownExpTypes, p.ExpType) {
		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        diagnostic.CodeInvalidRule,
			Message:     fmt.Sprintf("unknown exp_type %q", p.ExpType),
			Type:        typ,
			Field:       field,
			Suggestions: match.Suggest(p.ExpType, KnownExpTypes, 1),
		})
	}

	if p.ExpType != "" && p.Exp == "" {
		res.AddWarning(diagnostic.CodeInvalidRule, "exp_type without exp is ignored", typ, field)
	}
}

func checkComponent(res *diagnostic.Diagnostics, typ, field, kind, id string, known []string) {
	if slices.Contains(known, id) {
		return
	}

	res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        diagnostic.CodeMissingDeclaration,
		Message:     fmt.Sprintf("unknown %s %q", kind, id),
		Type:        typ,
		Field:       field,
		Suggestions: match.Suggest(id, known, 3),
	})
}
