// Package lints holds the table of lints known to rustc.
package lints

import "strings"

// Lint is a rustc lint or lint group name usable in allow/warn/deny/forbid.
type Lint struct {
	Name    string
	IsGroup bool
}

// Rustc lists groups first, then individual lints alphabetically.
var Rustc = []Lint{
	{"future_incompatible", true},
	{"nonstandard_style", true},
	{"rust_2018_compatibility", true},
	{"rust_2018_idioms", true},
	{"rustdoc", true},
	{"unused", true},
	{"warnings", true},
	{"absolute_paths_not_starting_with_crate", false},
	{"ambiguous_associated_items", false},
	{"anonymous_parameters", false},
	{"arithmetic_overflow", false},
	{"array_into_iter", false},
	{"asm_sub_register", false},
	{"bare_trait_objects", false},
	{"bindings_with_variant_name", false},
	{"box_pointers", false},
	{"broken_intra_doc_links", false},
	{"cenum_impl_drop_cast", false},
	{"clashing_extern_declarations", false},
	{"coherence_leak_check", false},
	{"conflicting_repr_hints", false},
	{"confusable_idents", false},
	{"const_err", false},
	{"dead_code", false},
	{"deprecated", false},
	{"deprecated_in_future", false},
	{"elided_lifetimes_in_paths", false},
	{"ellipsis_inclusive_range_patterns", false},
	{"explicit_outlives_requirements", false},
	{"exported_private_dependencies", false},
	{"ill_formed_attribute_input", false},
	{"illegal_floating_point_literal_pattern", false},
	{"improper_ctypes", false},
	{"improper_ctypes_definitions", false},
	{"incomplete_features", false},
	{"incomplete_include", false},
	{"indirect_structural_match", false},
	{"inline_no_sanitize", false},
	{"invalid_codeblock_attributes", false},
	{"invalid_type_param_default", false},
	{"invalid_value", false},
	{"irrefutable_let_patterns", false},
	{"keyword_idents", false},
	{"late_bound_lifetime_arguments", false},
	{"macro_expanded_macro_exports_accessed_by_absolute_paths", false},
	{"macro_use_extern_crate", false},
	{"meta_variable_misuse", false},
	{"missing_copy_implementations", false},
	{"missing_crate_level_docs", false},
	{"missing_debug_implementations", false},
	{"missing_doc_code_examples", false},
	{"missing_docs", false},
	{"missing_fragment_specifier", false},
	{"mixed_script_confusables", false},
	{"mutable_borrow_reservation_conflict", false},
	{"mutable_transmutes", false},
	{"no_mangle_const_items", false},
	{"no_mangle_generic_items", false},
	{"non_ascii_idents", false},
	{"non_camel_case_types", false},
	{"non_shorthand_field_patterns", false},
	{"non_snake_case", false},
	{"non_upper_case_globals", false},
	{"order_dependent_trait_objects", false},
	{"overflowing_literals", false},
	{"overlapping_patterns", false},
	{"path_statements", false},
	{"patterns_in_fns_without_body", false},
	{"private_doc_tests", false},
	{"private_in_public", false},
	{"proc_macro_derive_resolution_fallback", false},
	{"pub_use_of_private_extern_crate", false},
	{"redundant_semicolons", false},
	{"renamed_and_removed_lints", false},
	{"safe_packed_borrows", false},
	{"single_use_lifetimes", false},
	{"soft_unstable", false},
	{"stable_features", false},
	{"trivial_bounds", false},
	{"trivial_casts", false},
	{"trivial_numeric_casts", false},
	{"type_alias_bounds", false},
	{"tyvar_behind_raw_pointer", false},
	{"unaligned_references", false},
	{"uncommon_codepoints", false},
	{"unconditional_panic", false},
	{"unconditional_recursion", false},
	{"unknown_crate_types", false},
	{"unknown_lints", false},
	{"unnameable_test_items", false},
	{"unreachable_code", false},
	{"unreachable_patterns", false},
	{"unreachable_pub", false},
	{"unsafe_code", false},
	{"unsafe_op_in_unsafe_fn", false},
	{"unstable_features", false},
	{"unstable_name_collisions", false},
	{"unused_allocation", false},
	{"unused_assignments", false},
	{"unused_attributes", false},
	{"unused_braces", false},
	{"unused_comparisons", false},
	{"unused_crate_dependencies", false},
	{"unused_doc_comments", false},
	{"unused_extern_crates", false},
	{"unused_features", false},
	{"unused_import_braces", false},
	{"unused_imports", false},
	{"unused_labels", false},
	{"unused_lifetimes", false},
	{"unused_macros", false},
	{"unused_must_use", false},
	{"unused_mut", false},
	{"unused_parens", false},
	{"unused_qualifications", false},
	{"unused_results", false},
	{"unused_unsafe", false},
	{"unused_variables", false},
	{"variant_size_differences", false},
	{"warnings", false},
	{"where_clauses_object_safety", false},
	{"while_true", false},
}

// Find returns the first lint named name. Group entries come first, so a
// name that is both a group and a lint resolves to the group.
func Find(name string) (Lint, bool) {
	for _, l := range Rustc {
		if l.Name == name {
			return l, true
		}
	}
	return Lint{}, false
}

// WithPrefix returns the lints whose name starts with prefix, in table order.
func WithPrefix(prefix string) []Lint {
	var out []Lint
	for _, l := range Rustc {
		if strings.HasPrefix(l.Name, prefix) {
			out = append(out, l)
		}
	}
	return out
}
