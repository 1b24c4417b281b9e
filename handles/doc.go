// Package handles maps live object instances to small integer handles for
// hosts that cannot hold Go pointers, such as wasm guests where every
// instance crosses the boundary as an i32.
//
// Handle 0 is reserved and always invalid. Slots of removed instances are
// recycled through a free list, so handle values are dense but not unique
// over the lifetime of a table.
package handles
