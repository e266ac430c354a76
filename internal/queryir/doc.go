// Package queryir is the data-flow intermediate representation: a DAG of
// QueryView nodes built from a clause's chosen internal/sips permutation.
// QueryView is a sealed interface (an unexported marker method, the same
// pattern the teacher's own queryir package uses to restrict a sum type to
// package-local implementations) with ten variants — Select, Tuple, Join,
// Compare, Map, Aggregate, Negate, Merge, Insert, KVIndex — plus a
// QueryCondition guard type referenced by views rather than itself a view.
package queryir
