// Package mirror provides a runtime type registry for Go: classes declare
// their members, methods and constructors once through a fluent registrar,
// and the resulting reflection tables expose every declared operation by
// string name through type-erased call records. Embedding generators consume
// the tables to bind registered classes into scripting hosts.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	mirror/              Root package with the Binder contract
//	├── typename/        Canonical runtime names for Go types
//	├── typeinfo/        Boxed values, call records, reflection tables,
//	│                    class/enum/function registries, structured dumps
//	├── handles/         Integer handle table for pointer-less hosts
//	├── bindjs/          JavaScript host bindings (goja)
//	├── bindlua/         Lua host bindings (gopher-lua)
//	├── bindstar/        Starlark host bindings (go.starlark.net)
//	├── bindwasm/        WASM host-module bindings (wazero)
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Declare a class once:
//
//	type Counter struct{ Count int }
//
//	func (c *Counter) Increment() int { c.Count++; return c.Count }
//
//	func init() {
//	    typeinfo.Describe("Counter", func(r *typeinfo.Registrar[Counter]) {
//	        typeinfo.Constructor0(r, func() *Counter { return &Counter{} })
//	        typeinfo.Field(r, "count", func(c *Counter) *int { return &c.Count })
//	        typeinfo.Method0(r, "increment", (*Counter).Increment)
//	    })
//	}
//
// Then drive it by name from anywhere:
//
//	obj, _ := typeinfo.Default().New("Counter")
//	v, _ := obj.Call("increment")
//	n, _ := typeinfo.Unbox[int](v) // 1
//
// or bind the whole registry into a host:
//
//	rt := goja.New()
//	binder := bindjs.New(rt, typeinfo.Default())
//	mirror.BindAll(typeinfo.Default(), binder)
//	rt.RunString(`c = new Counter(); c.increment()`)
//
// # Thread Safety
//
// Registries are safe for concurrent use. A class's registration callback
// runs exactly once, on first lookup, no matter how many goroutines race it;
// no reader ever observes a partially built table. Individual instances
// carry no synchronization of their own.
package mirror
