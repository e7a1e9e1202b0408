package assistant

import (
	"github.com/tidwall/gjson"
)

// Arguments is the lazily parsed argument object of a tool call.
type Arguments struct {
	obj gjson.Result
}

var emptyArguments = Arguments{obj: gjson.Parse("{}")}

// ParseArguments parses the raw arguments string of a tool call. Anything that
// is not a JSON object (invalid JSON included) yields an empty object: the
// call still reaches the tool, which then reports its missing fields.
func ParseArguments(raw string) Arguments {
	if !gjson.Valid(raw) {
		return emptyArguments
	}
	obj := gjson.Parse(raw)
	if !obj.IsObject() {
		return emptyArguments
	}
	return Arguments{obj: obj}
}

// String returns the named field when it is present and a JSON string.
func (a Arguments) String(name string) (string, bool) {
	v := a.obj.Get(name)
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// Raw returns the JSON text of the argument object.
func (a Arguments) Raw() string {
	if a.obj.Raw == "" {
		return "{}"
	}
	return a.obj.Raw
}
