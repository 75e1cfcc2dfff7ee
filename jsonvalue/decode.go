package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/go-json-experiment/json/jsontext"

	"json-mapper/diagnostic"
)

// Decode parses a single JSON document.
// Failures are *diagnostic.Error values of kind KindSyntax.
func Decode(data []byte) (Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	v, err := readValue(dec)
	if err != nil {
		return nil, syntaxError(err)
	}

	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}

		return nil, syntaxError(err)
	}

	return v, nil
}

// DecodeYAML converts a YAML document to JSON and decodes it.
// Mapping keys come out in lexical order: YAML mappings are unordered.
func DecodeYAML(data []byte) (Value, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, diagnostic.Wrap(diagnostic.KindSyntax, err, "Invalid YAML data: "+err.Error())
	}

	return Decode(js)
}

func syntaxError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	de := diagnostic.Wrap(diagnostic.KindSyntax, err, "Invalid JSON data: "+err.Error())

	var se *jsontext.SyntacticError
	if errors.As(err, &se) {
		de.Hints = append(de.Hints, fmt.Sprintf("The error occurred at byte offset %d.", se.ByteOffset))
	}

	return de
}

func readValue(dec *jsontext.Decoder) (Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return Null{}, nil

	case 't', 'f':
		return Bool(tok.Bool()), nil

	case '"':
		return String(tok.String()), nil

	case '0':
		v, err := parseNumber(tok.String())
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", tok.String(), err)
		}

		return v, nil

	case '[':
		arr := Array{}

		for dec.PeekKind() != ']' {
			elem, err := readValue(dec)
			if err != nil {
				return nil, err
			}

			arr = append(arr, elem)
		}

		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}

		return arr, nil

	case '{':
		obj := Object{}

		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}

			value, err := readValue(dec)
			if err != nil {
				return nil, err
			}

			obj.Members = append(obj.Members, Member{Name: name.String(), Value: value})
		}

		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}

		return obj, nil

	default:
		return nil, fmt.Errorf("unexpected token %s", tok)
	}
}
