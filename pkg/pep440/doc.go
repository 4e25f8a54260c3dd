// Package pep440 implements Python version identifiers and version
// specifiers as defined by PEP 440.
//
// A [Version] is a parsed version identifier such as "1.26.0", "2!1.0rc1",
// or "1.10.post2.dev3+local.5". Versions are totally ordered; use
// [Version.Compare] or the convenience predicates.
//
// A [Specifier] is a single comparison clause such as "~=1.26.0" or
// "==1.10", and a [SpecifierSet] is a comma-separated conjunction of
// clauses as found in requirements manifests:
//
//	specs, err := pep440.ParseSpecifierSet(">=1.26,<2.0")
//	v := pep440.MustParse("1.26.3")
//	specs.Check(v) // true
package pep440
