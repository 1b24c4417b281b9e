// Package bindlua binds a typeinfo registry into a gopher-lua state.
//
// Each registered class becomes a global table with a `new` constructor
// dispatching on argument count. Instances are userdata; the class
// metatable's __index serves members and bound methods (called with the
// colon syntax), __newindex writes members. Enums become read-only global
// tables, free functions become globals. Errors raised by call records
// surface as Lua errors.
package bindlua
