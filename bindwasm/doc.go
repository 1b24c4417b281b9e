// Package bindwasm binds a typeinfo registry into a wazero host module.
//
// Wasm guests hold no Go pointers, so instances cross the boundary as i32
// handles drawn from a handles.Table. Each registered class exports
// `<class>.new<arity>` factories, `<class>.<method>` invokers taking the
// handle first, member accessors `<class>.get_<member>` / `<class>.set_<member>`,
// and a `<class>.drop` destructor. Enum values export as niladic
// `<enum>.<name>` getters, free functions under their own names.
//
// Only signatures expressible in core wasm value types bind: bool, the
// integer and float widths, enums, and registered classes (as handles).
// Anything else is rejected with an unsupported error rather than skipped.
package bindwasm
