package tr064

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
)

// Argument is one named action argument, in declaration order
type Argument struct {
	Name  string
	Value string
}

// Result is the answer of a successful action invocation
type Result struct {
	// Action is the name of the response element (e.g. "GetInfoResponse")
	Action string

	// Args holds the out-arguments in the order the device sent them
	Args []Argument

	// Raw is the undecoded SOAP response body
	Raw string
}

// Get returns the value of an out-argument
func (r Result) Get(name string) (string, bool) {
	for _, a := range r.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// String renders the out-arguments as a compact key/value listing
func (r Result) String() string {
	if len(r.Args) == 0 {
		return "{}"
	}
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = fmt.Sprintf("%s: %q", a.Name, a.Value)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// encodeInArgs builds the value handed to the SOAP encoder. The encoder
// marshals struct fields as child elements, so a struct type is synthesized
// with one string field per argument and the element name in its soap tag.
// A nil value means the action is invoked without parameters.
func encodeInArgs(args []Argument) interface{} {
	if len(args) == 0 {
		return nil
	}

	fields := make([]reflect.StructField, len(args))
	for i, a := range args {
		fields[i] = reflect.StructField{
			Name: fmt.Sprintf("Arg%d", i),
			Type: reflect.TypeOf(""),
			Tag:  reflect.StructTag(fmt.Sprintf(`soap:%q`, a.Name)),
		}
	}

	v := reflect.New(reflect.StructOf(fields))
	for i, a := range args {
		v.Elem().Field(i).SetString(a.Value)
	}
	return v.Interface()
}

// responseArgs decodes the children of a SOAP response element into an
// ordered argument list, whatever the action's out-arguments are.
type responseArgs struct {
	name string
	args []Argument
}

// UnmarshalXML implements xml.Unmarshaler
func (r *responseArgs) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.name = start.Name.Local
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return fmt.Errorf("decode %s: %w", t.Name.Local, err)
			}
			r.args = append(r.args, Argument{Name: t.Name.Local, Value: value})
		case xml.EndElement:
			return nil
		}
	}
}
