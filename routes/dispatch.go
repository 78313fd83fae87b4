package routes

import (
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dispatcher is implemented by handlers that front several verbs with one
// value, each verb served by an exported method named after it (Get, Post, ...).
type Dispatcher interface {
	AllowedMethods() []string
}

// Resolve returns the callable whose documentation describes verb on handler.
// For a Dispatcher that lists verb and has a matching method, that is the
// method expression; for every other handler it is the handler itself.
func Resolve(verb string, handler any) any {
	d, ok := handler.(Dispatcher)
	if !ok {
		return handler
	}
	if !allows(d, verb) {
		return handler
	}
	name := MethodName(verb)
	t := reflect.TypeOf(handler)
	// Value-receiver methods seen through a pointer are generated wrappers
	// with no source position; take them from the value type instead.
	if t.Kind() == reflect.Pointer {
		if m, ok := t.Elem().MethodByName(name); ok {
			return m.Func.Interface()
		}
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return handler
	}
	return m.Func.Interface()
}

// MethodName maps a verb to the method a Dispatcher implements for it ("get" -> "Get").
func MethodName(verb string) string {
	// Caser values are stateful, so one is built per call.
	return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(verb)))
}

func allows(d Dispatcher, verb string) bool {
	for _, m := range d.AllowedMethods() {
		if strings.EqualFold(strings.TrimSpace(m), verb) {
			return true
		}
	}
	return false
}
