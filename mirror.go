package mirror

import (
	"github.com/mirrorbind/mirror/typeinfo"
)

// Binder is implemented by each embedding generator. BindClass installs one
// reflection table into the host's native object model, BindEnum one enum
// table, BindFunction one free function. Binding the same name twice into
// one host environment fails with a duplicate_binding error.
type Binder interface {
	BindClass(info *typeinfo.TypeInfo) error
	BindEnum(info *typeinfo.EnumInfo) error
	BindFunction(info *typeinfo.FunctionInfo) error
}

// BindAll installs every class, enum and free function registered in reg
// into the host behind binder. Registration tables are bound in sorted name
// order, so repeated binds of the same registry are deterministic.
func BindAll(reg *typeinfo.Registry, binder Binder) error {
	for _, ti := range reg.Classes() {
		if err := binder.BindClass(ti); err != nil {
			return err
		}
	}
	for _, e := range reg.Enums() {
		if err := binder.BindEnum(e); err != nil {
			return err
		}
	}
	for _, f := range reg.Functions() {
		if err := binder.BindFunction(f); err != nil {
			return err
		}
	}
	return nil
}
