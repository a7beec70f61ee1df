package mapping

import (
	"fmt"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/diagnostic"
	"github.com/antonsamarsky/emitmapper-tools/internal/match"
)

// Validate checks a descriptor file against the registered types.
func (r *Registry) Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "descriptor file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddWarning("unknown_version", fmt.Sprintf("unsupported version %q", f.Version), "", "")
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		entry := &f.Types[i]

		if entry.Type == "" {
			res.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("entry %d has no type", i), "", "")
			continue
		}

		t, ok := r.TypeByName(entry.Type)
		if !ok {
			res.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("type %q is not registered", entry.Type),
				entry.Type, "", match.Suggest(entry.Type, r.TypeNames(), maxSuggestions)...)

			continue
		}

		key := t.PkgPath() + "." + t.Name()
		if _, dup := seenTypes[key]; dup {
			res.AddError(diagnostic.CodeDuplicateField, fmt.Sprintf("type %q is described twice", entry.Type), entry.Type, "")
			continue
		}
		seenTypes[key] = struct{}{}

		r.validateEntry(res, entry)
	}

	return res
}

func (r *Registry) validateEntry(res *diagnostic.Diagnostics, entry *TypeEntry) {
	t, _ := r.TypeByName(entry.Type)
	names := analyze.Names(analyze.Members(t))
	fields := map[string]string{}

	for _, member := range entry.MemberNames() {
		if _, ok := analyze.Lookup(t, member); !ok {
			res.AddError(diagnostic.CodeUnknownMember, "no member "+member, entry.Type, member,
				match.Suggest(member, names, maxSuggestions)...)

			continue
		}

		for _, spec := range entry.Fields[member] {
			if spec.Name == "" {
				res.AddError(diagnostic.CodeEmptyField, "empty field name", entry.Type, member)
				continue
			}

			if owner, dup := fields[spec.Name]; dup {
				res.AddError(diagnostic.CodeDuplicateField,
					fmt.Sprintf("field %q is already declared by %s", spec.Name, owner), entry.Type, member)

				continue
			}
			fields[spec.Name] = member

			if spec.Type != "" {
				if _, ok := r.FieldType(spec.Type); !ok {
					res.AddError(diagnostic.CodeUnsupportedType, fmt.Sprintf("unknown field type %q", spec.Type), entry.Type, member)
				}
			}
		}
	}

	for _, member := range entry.Ignore {
		if _, ok := analyze.Lookup(t, member); !ok {
			res.AddWarning(diagnostic.CodeUnknownMember, "ignored member does not exist", entry.Type, member)
			continue
		}

		if _, ok := entry.Fields[member]; ok {
			res.AddWarning(diagnostic.CodeUnmapped, "member is both described and ignored", entry.Type, member)
		}
	}
}
