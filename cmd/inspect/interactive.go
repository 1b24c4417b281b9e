package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typeinfo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectClass modelState = iota
	stateSelectMethod
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err       error
	reg       *typeinfo.Registry
	classes   []*typeinfo.TypeInfo
	instances map[string]*typeinfo.Object
	methods   []*typeinfo.MethodInfo
	inputs    []textinput.Model
	result    string
	selClass  int
	selMethod int
	focusIdx  int
	state     modelState
}

func newInteractiveModel(reg *typeinfo.Registry) *interactiveModel {
	return &interactiveModel{
		reg:       reg,
		classes:   reg.Classes(),
		instances: make(map[string]*typeinfo.Object),
		state:     stateSelectClass,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateSelectClass || m.state == stateShowResult {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectClass && m.selClass > 0 {
				m.selClass--
			}
			if m.state == stateSelectMethod && m.selMethod > 0 {
				m.selMethod--
			}

		case "down", "j":
			if m.state == stateSelectClass && m.selClass < len(m.classes)-1 {
				m.selClass++
			}
			if m.state == stateSelectMethod && m.selMethod < len(m.methods)-1 {
				m.selMethod++
			}

		case "enter":
			switch m.state {
			case stateSelectClass:
				m.prepareMethods()

			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectMethod:
				m.state = stateSelectClass
				m.methods = nil
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareMethods() {
	ti := m.classes[m.selClass]
	m.methods = nil
	for _, name := range ti.MethodNames() {
		method, _ := ti.Method(name)
		m.methods = append(m.methods, method)
	}
	m.selMethod = 0
	m.state = stateSelectMethod
}

func (m *interactiveModel) prepareInputs() {
	method := m.methods[m.selMethod]
	m.inputs = make([]textinput.Model, method.Arity())
	for i, pt := range method.ParamTypes {
		ti := textinput.New()
		ti.Placeholder = pt
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// instance returns the browsing instance for the selected class, creating it
// through the niladic constructor on first use.
func (m *interactiveModel) instance() (*typeinfo.Object, error) {
	ti := m.classes[m.selClass]
	if obj, ok := m.instances[ti.ClassName]; ok {
		return obj, nil
	}
	obj, err := m.reg.New(ti.ClassName)
	if err != nil {
		return nil, err
	}
	m.instances[ti.ClassName] = obj
	return obj, nil
}

func (m *interactiveModel) callMethod() tea.Msg {
	obj, err := m.instance()
	if err != nil {
		return callResultMsg{err: err}
	}

	method := m.methods[m.selMethod]
	args := make([]typeinfo.Value, len(m.inputs))
	for i, input := range m.inputs {
		var goType reflect.Type
		if i < len(method.GoParams) {
			goType = method.GoParams[i]
		}
		v, err := convertArg(input.Value(), method.ParamTypes[i], goType)
		if err != nil {
			return callResultMsg{err: err}
		}
		args[i] = v
	}

	out, err := obj.Call(method.Name, args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	if out.IsNil() {
		return callResultMsg{result: "(void)"}
	}
	return callResultMsg{result: fmt.Sprintf("%v", out.Interface())}
}

// convertArg parses a typed-in argument into a boxed value of the method's
// Go parameter type.
func convertArg(value, typeName string, goType reflect.Type) (typeinfo.Value, error) {
	if goType == nil {
		return typeinfo.Box(value), nil
	}

	switch goType.Kind() {
	case reflect.Bool:
		return typeinfo.Box(value == "true" || value == "1"), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return typeinfo.Value{}, errors.InvalidInput(errors.PhaseInvoke,
				fmt.Sprintf("%q is not a valid %s", value, typeName))
		}
		return typeinfo.BoxAny(reflect.ValueOf(n).Convert(goType).Interface()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return typeinfo.Value{}, errors.InvalidInput(errors.PhaseInvoke,
				fmt.Sprintf("%q is not a valid %s", value, typeName))
		}
		return typeinfo.BoxAny(reflect.ValueOf(n).Convert(goType).Interface()), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return typeinfo.Value{}, errors.InvalidInput(errors.PhaseInvoke,
				fmt.Sprintf("%q is not a valid %s", value, typeName))
		}
		return typeinfo.BoxAny(reflect.ValueOf(f).Convert(goType).Interface()), nil
	case reflect.String:
		return typeinfo.Box(value), nil
	}
	return typeinfo.Value{}, errors.Unsupported(errors.PhaseInvoke,
		"cannot type an argument of type "+typeName+" here")
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Registry Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class:\n\n")
		for i, ti := range m.classes {
			line := fmt.Sprintf("%s  (%d members, %d methods)",
				ti.ClassName, len(ti.MemberNames()), len(ti.MethodNames()))
			if i == m.selClass {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateSelectMethod:
		ti := m.classes[m.selClass]
		b.WriteString(fmt.Sprintf("Methods of %s:\n\n", nameStyle.Render(ti.ClassName)))
		if len(m.methods) == 0 {
			b.WriteString(helpStyle.Render("  (no methods)"))
			b.WriteString("\n")
		}
		for i, method := range m.methods {
			line := m.formatMethod(method)
			if i == m.selMethod {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back"))

	case stateInputArgs:
		method := m.methods[m.selMethod]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", nameStyle.Render(method.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(method.ParamTypes[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		method := m.methods[m.selMethod]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", nameStyle.Render(method.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatMethod(method *typeinfo.MethodInfo) string {
	var params []string
	for _, p := range method.ParamTypes {
		params = append(params, typeStyle.Render(p))
	}
	return nameStyle.Render(method.Name) + "(" + strings.Join(params, ", ") + ") -> " +
		typeStyle.Render(method.ReturnType)
}

func runInteractive(reg *typeinfo.Registry) error {
	p := tea.NewProgram(newInteractiveModel(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
