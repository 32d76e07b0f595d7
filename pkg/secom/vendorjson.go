package secom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// vendorRecords holds decoded vendor rows with fields in first-seen order.
type vendorRecords struct {
	fields []string
	rows   []map[string]any
	// labels holds row labels from the object keys of the column-oriented
	// layout; nil for the record array layout.
	labels []int
}

func (v *vendorRecords) addField(name string) {
	for _, f := range v.fields {
		if f == name {
			return
		}
	}
	v.fields = append(v.fields, name)
}

// decodeVendorJSON accepts either an array of records or the
// column-oriented object layout {"field": {"0": value, ...}, ...}.
func decodeVendorJSON(path string, data []byte) (*vendorRecords, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, jsonParseError(path, data, dec, err)
	}

	out := &vendorRecords{}
	switch tok {
	case json.Delim('['):
		err = decodeRecordArray(dec, out)
	case json.Delim('{'):
		err = decodeColumnObject(dec, out)
	default:
		err = fmt.Errorf("expected a JSON array or object, got %v", tok)
	}
	if err != nil {
		return nil, jsonParseError(path, data, dec, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, jsonParseError(path, data, dec, errors.New("unexpected data after top-level value"))
	}
	return out, nil
}

func decodeRecordArray(dec *json.Decoder, out *vendorRecords) error {
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		row := make(map[string]any)
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return err
			}
			row[key] = v
			out.addField(key)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		out.rows = append(out.rows, row)
	}
	return expectDelim(dec, ']')
}

func decodeColumnObject(dec *json.Decoder, out *vendorRecords) error {
	position := make(map[int]int)
	for dec.More() {
		field, err := readKey(dec)
		if err != nil {
			return err
		}
		out.addField(field)
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			label, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("row key %q is not an integer", key)
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return err
			}
			p, ok := position[label]
			if !ok {
				p = len(out.rows)
				position[label] = p
				out.rows = append(out.rows, make(map[string]any))
				out.labels = append(out.labels, label)
			}
			out.rows[p][field] = v
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// jsonParseError converts a decode failure into a ParseError with the line
// and column of the failing offset.
func jsonParseError(path string, data []byte, dec *json.Decoder, err error) error {
	offset := dec.InputOffset()
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		offset = syntax.Offset
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		offset = int64(len(data))
	}
	line, col := lineColumn(data, offset)
	return &ParseError{Path: path, Line: line, Column: col, Message: "malformed JSON", Err: err}
}

func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
