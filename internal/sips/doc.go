// Package sips generates Sideways Information Passing Strategies: for a
// clause and an assumed "left corner" (an incoming message or a proved
// tuple, or nil for the whole clause with no assumption), it enumerates
// valid orderings of the remaining body elements, drives a Visitor through
// each, and scores them so the data-flow builder (internal/queryir) can
// pick the cheapest plan.
package sips
