package darwin

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
)

// snippetRadius is how many bytes around a failure offset end up in
// Error.Snippet.
const snippetRadius = 64

// validatable is the go-openapi model contract: every model checks its own
// identity fields and those of its nested models.
type validatable interface {
	Validate(formats strfmt.Registry) error
}

// nameValidation prefixes a nested validation error with its parent path,
// the way go-swagger generated models do.
func nameValidation(name string, err error) error {
	switch e := err.(type) {
	case *oaerrors.CompositeError:
		return e.ValidateName(name)
	case *oaerrors.Validation:
		return e.ValidateName(name)
	}
	return err
}

// validateSlice validates every element of a nested model slice, naming
// failures "<name>.<index>".
func validateSlice[T any, PT interface {
	*T
	validatable
}](name string, items []T, formats strfmt.Registry) error {
	var res []error
	for i := range items {
		if err := PT(&items[i]).Validate(formats); err != nil {
			res = append(res, nameValidation(name+"."+strconv.Itoa(i), err))
		}
	}
	return compose(res)
}

// validateValue runs model validation on v. Top-level slices are walked so
// list responses report "<index>.<field>".
func validateValue(v any, formats strfmt.Registry) error {
	if m, ok := v.(validatable); ok {
		return m.Validate(formats)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil
	}

	var res []error
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
		} else {
			if !elem.CanAddr() {
				continue
			}
			elem = elem.Addr()
		}
		m, ok := elem.Interface().(validatable)
		if !ok {
			return nil
		}
		if err := m.Validate(formats); err != nil {
			res = append(res, nameValidation(strconv.Itoa(i), err))
		}
	}
	return compose(res)
}

// compose folds field failures into one composite validation error.
func compose(res []error) error {
	if len(res) > 0 {
		return oaerrors.CompositeValidationError(res...)
	}
	return nil
}

// compact drops the null entries some list endpoints return.
func compact[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// validationPath returns the dotted path of the first field-level failure
// in err.
func validationPath(err error) string {
	var ve *oaerrors.Validation
	if errors.As(err, &ve) {
		return ve.Name
	}
	var ce *oaerrors.CompositeError
	if errors.As(err, &ce) {
		for _, inner := range ce.Errors {
			if p := validationPath(inner); p != "" {
				return p
			}
		}
	}
	return ""
}

// decodeBody unmarshals data into out and runs identity validation.
// Failures come back as a KindDecode *Error with Path and Snippet filled in;
// the caller completes Op/Method/URL.
func decodeBody(data []byte, out any, formats strfmt.Registry) *Error {
	if err := json.Unmarshal(data, out); err != nil {
		de := &Error{Kind: KindDecode, Message: "malformed response body", Cause: err}

		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			de.Snippet = snippet(data, syntaxErr.Offset)
		case errors.As(err, &typeErr):
			de.Path = typeErr.Field
			de.Message = "unexpected type " + typeErr.Value + " for " + typeErr.Type.String()
			de.Snippet = snippet(data, typeErr.Offset)
		default:
			de.Snippet = snippet(data, 0)
		}
		return de
	}

	if err := validateValue(out, formats); err != nil {
		path := validationPath(err)
		return &Error{
			Kind:    KindDecode,
			Path:    path,
			Message: "response failed validation",
			Snippet: snippet(data, locate(data, path)),
			Cause:   err,
		}
	}
	return nil
}

// locate returns the offset of the last key of path in data, or 0.
func locate(data []byte, path string) int64 {
	if path == "" {
		return 0
	}
	key := path
	if i := bytes.LastIndexByte([]byte(path), '.'); i >= 0 {
		key = path[i+1:]
	}
	if i := bytes.Index(data, []byte(strconv.Quote(key))); i >= 0 {
		return int64(i)
	}
	return 0
}

func snippet(data []byte, offset int64) string {
	start := offset - snippetRadius
	if start < 0 {
		start = 0
	}
	end := offset + snippetRadius
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	if start > end {
		start = end
	}
	return string(data[start:end])
}
