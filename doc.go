// Package bcoskema validates and constructs BioCompute Objects (BCOs).
//
// A BCO arrives as a generic tree of maps, slices and scalars. It is checked
// against a compiled, immutable rules.Model; every violation is reported as an
// Issue with a JSON Pointer path, and all violations are collected unless
// fail-fast is requested.
//
// Layout:
//
//   - The root package holds the public validation API and the error model.
//   - schema compiles the embedded BCO contract; rules is the compiled form.
//   - builder turns a validated tree into a model.Document; semantic checks
//     the typed document; processor chains the three stages.
//   - codec, formats, loader and i18n are supporting layers, and the CLI
//     lives under cmd/bcoskema.
//
// Typical usage:
//
//	tree, err := bcoskema.DecodeJSON(data)
//	if err := bcoskema.Validate(ctx, tree, schema.Default()); err != nil {
//		iss, _ := bcoskema.AsIssues(err)
//		...
//	}
package bcoskema
