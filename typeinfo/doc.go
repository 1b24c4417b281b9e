// Package typeinfo implements the runtime type registry and reflection model.
//
// A class opts in by describing itself once:
//
//	typeinfo.Describe[Counter]("Counter", func(r *typeinfo.Registrar[Counter]) {
//		typeinfo.Constructor0(r, func() *Counter { return &Counter{} })
//		typeinfo.Field(r, "count", func(c *Counter) *int { return &c.Count })
//		typeinfo.Method0(r, "increment", (*Counter).Increment)
//	})
//
// The callback runs lazily, exactly once per class, on first table access.
// Concurrent first use from multiple goroutines is safe and no caller can
// observe a partially built table. After the callback returns the table is
// sealed and read-only for the process lifetime.
//
// The declaration is compiled into type-erased call records: getters,
// setters, method invokers, and constructor factories that exchange boxed
// Values. Records carry parameter and return types both as canonical name
// strings (the cross-host contract) and as reflect.Types (used by embedding
// generators to marshal host values). Constructors form an overload set
// disambiguated only by arity.
//
// Side registries cover enums (name<->value tables) and free functions
// (name -> invoker), built on the same type-name and call-erasure
// conventions.
//
// Everything operates against a Registry; the package-level helpers target
// the process Default() registry. Tests and embedders that want isolation
// construct their own Registry and use the *In variants.
package typeinfo
