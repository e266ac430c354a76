// Package importer resolves `#import` directives into a single amalgamated
// ast.Module: it discovers the transitive closure of imported displays,
// detects cycles, orders dependencies before dependents, and concatenates
// their token streams into one parser pass so declarations and clauses
// from every imported file share one string pool and one set of canonical
// DeclClass identities. Sub-packages modcache and dotfile are independent
// collaborators: modcache persists the resolved dependency order across
// invocations, dotfile loads the optional `.drlc.{cue,toml,yaml}` project
// config that supplies default search paths.
package importer
