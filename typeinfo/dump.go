package typeinfo

import (
	"encoding/json"

	"github.com/mirrorbind/mirror/errors"
)

// Snapshot is the structured dump of one live object: its class name, each
// member with its current value, and each method signature. Marshals to the
// JSON shape the inspect tool and host-side debuggers consume.
type Snapshot struct {
	ClassName string           `json:"className"`
	Members   []MemberSnapshot `json:"members"`
	Methods   []MethodSnapshot `json:"methods"`
}

// MemberSnapshot is one member's name, type and current value.
type MemberSnapshot struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// MethodSnapshot is one method's signature.
type MethodSnapshot struct {
	Name       string   `json:"name"`
	ReturnType string   `json:"returnType"`
	Parameters []string `json:"parameters"`
}

// Snapshot reads every member of the object and assembles the structured
// dump. A failing getter aborts the dump; partial snapshots would be worse
// than none.
func (o *Object) Snapshot() (*Snapshot, error) {
	s := &Snapshot{
		ClassName: o.info.ClassName,
		Members:   make([]MemberSnapshot, 0, len(o.info.memberOrder)),
		Methods:   make([]MethodSnapshot, 0, len(o.info.methodOrder)),
	}

	for _, name := range o.info.memberOrder {
		m := o.info.members[name]
		v, err := m.Getter(o.recv)
		if err != nil {
			return nil, errors.New(errors.PhaseDump, errors.KindInvalidInput).
				Class(o.info.ClassName).
				Name(name).
				Cause(err).
				Detail("member read failed during dump").
				Build()
		}
		s.Members = append(s.Members, MemberSnapshot{
			Name:  name,
			Type:  m.TypeName,
			Value: v.Interface(),
		})
	}

	for _, name := range o.info.methodOrder {
		m := o.info.methods[name]
		params := make([]string, len(m.ParamTypes))
		copy(params, m.ParamTypes)
		s.Methods = append(s.Methods, MethodSnapshot{
			Name:       name,
			ReturnType: m.ReturnType,
			Parameters: params,
		})
	}

	return s, nil
}

// Dump renders the object's snapshot as indented JSON.
func (o *Object) Dump() (string, error) {
	s, err := o.Snapshot()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.PhaseDump, errors.KindInvalidInput, err, "snapshot marshal failed")
	}
	return string(data), nil
}
