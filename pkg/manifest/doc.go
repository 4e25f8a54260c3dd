// Package manifest reads and writes pip requirements manifests.
//
// A manifest is a plain text file with one dependency declaration per
// line, for example:
//
//	# Protobuf code generation toolchain.
//	grpcio-tools~=1.26.0
//	mypy-protobuf==1.10
//
// Lines beginning with "#" are comments; blank lines are ignored. Every
// other line must parse as a requirement (package name, optional extras,
// optional version constraints, optional environment marker) or [Parse]
// fails with a [*ParseError] carrying the offending line number.
//
// Package names are normalized per PEP 503, and a manifest may not
// declare the same package twice. Serialization via [Manifest.Write] is
// canonical: re-parsing the output yields the same requirement set.
package manifest
