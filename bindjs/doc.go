// Package bindjs binds a typeinfo registry into a goja JavaScript runtime.
//
// Each registered class becomes a global constructor function dispatching on
// argument count. Instances are plain JS objects carrying accessor
// properties for members and function properties for methods; the underlying
// Go instance rides along in a hidden property so instances can be passed
// back into methods expecting them. Enums become frozen global objects,
// free functions become globals. Errors raised by call records are thrown
// into the script as GoErrors.
package bindjs
