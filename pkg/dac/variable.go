package dac

import "fmt"

// Variable is one dashboard variable definition.
type Variable struct {
	Kind string       `json:"kind" yaml:"kind"`
	Spec VariableSpec `json:"spec" yaml:"spec"`
}

// VariableSpec holds the fields shared by the variable kinds; unused ones
// are omitted from the document.
type VariableSpec struct {
	Name           string   `json:"name" yaml:"name"`
	Display        *Display `json:"display,omitempty" yaml:"display,omitempty"`
	Values         []string `json:"values,omitempty" yaml:"values,omitempty"`
	DefaultValue   string   `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Value          string   `json:"value,omitempty" yaml:"value,omitempty"`
	Constant       bool     `json:"constant,omitempty" yaml:"constant,omitempty"`
	AllowMultiple  bool     `json:"allowMultiple,omitempty" yaml:"allowMultiple,omitempty"`
	AllowAllValue  bool     `json:"allowAllValue,omitempty" yaml:"allowAllValue,omitempty"`
	CustomAllValue string   `json:"customAllValue,omitempty" yaml:"customAllValue,omitempty"`
	Hidden         bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// AddVariable appends a variable to the dashboard.
func AddVariable(name string, v Variable, opts ...VariableOption) Option {
	return func(b *Builder) error {
		if name == "" {
			return fmt.Errorf("variable name is required")
		}
		v.Spec.Name = name
		for _, opt := range opts {
			opt(&v)
		}
		b.Dashboard.Spec.Variables = append(b.Dashboard.Spec.Variables, v)
		return nil
	}
}

// VariableOption tweaks a variable definition.
type VariableOption func(*Variable)

// ListVariable builds a list variable over a static set of values.
func ListVariable(values ...string) Variable {
	return Variable{
		Kind: "ListVariable",
		Spec: VariableSpec{Values: values},
	}
}

// TextVariable builds a free-text variable with a default value.
func TextVariable(value string) Variable {
	return Variable{
		Kind: "TextVariable",
		Spec: VariableSpec{Value: value},
	}
}

// VariableDisplayName sets the label shown instead of the variable name.
func VariableDisplayName(name string) VariableOption {
	return func(v *Variable) {
		if v.Spec.Display == nil {
			v.Spec.Display = &Display{}
		}
		v.Spec.Display.Name = name
	}
}

// VariableDescription documents the variable.
func VariableDescription(description string) VariableOption {
	return func(v *Variable) {
		if v.Spec.Display == nil {
			v.Spec.Display = &Display{}
		}
		v.Spec.Display.Description = description
	}
}

// Constant pins a text variable to its value.
func Constant() VariableOption {
	return func(v *Variable) {
		v.Spec.Constant = true
	}
}

// AllowMultiple lets a list variable select several values at once.
func AllowMultiple() VariableOption {
	return func(v *Variable) {
		v.Spec.AllowMultiple = true
	}
}

// AllowAllValue adds the "all" choice to a list variable.
func AllowAllValue() VariableOption {
	return func(v *Variable) {
		v.Spec.AllowAllValue = true
	}
}

// CustomAllValue substitutes a custom expansion for the "all" choice.
func CustomAllValue(value string) VariableOption {
	return func(v *Variable) {
		v.Spec.AllowAllValue = true
		v.Spec.CustomAllValue = value
	}
}

// Hidden hides the variable from the dashboard toolbar.
func Hidden() VariableOption {
	return func(v *Variable) {
		v.Spec.Hidden = true
	}
}
