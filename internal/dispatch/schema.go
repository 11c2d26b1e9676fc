package dispatch

import (
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	idType  = reflect.TypeFor[ID]()
	intType = reflect.TypeFor[Int]()
)

// inputSchema infers the argument schema of In and widens ID and Int
// properties to the string-or-integer forms they decode.
func inputSchema[In any]() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, err
	}
	rt := reflect.TypeFor[In]()
	if rt.Kind() != reflect.Struct {
		return s, nil
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		var types []string
		switch ft {
		case idType:
			types = []string{"string", "integer"}
		case intType:
			types = []string{"integer", "string"}
		default:
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		if prop, ok := s.Properties[name]; ok {
			prop.Type = ""
			prop.Types = types
		}
	}
	return s, nil
}
