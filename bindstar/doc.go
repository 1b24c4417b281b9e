// Package bindstar binds a typeinfo registry into a Starlark environment.
//
// Each registered class becomes a predeclared constructor builtin
// dispatching on argument count. Instances are starlark values with
// attribute access for members and bound-method builtins for methods. Enums
// become frozen dicts, free functions become builtins. Errors raised by
// call records surface as Starlark evaluation errors.
package bindstar
