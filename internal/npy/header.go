// Package npy reads and writes NumPy ".npy" array payloads: the transport
// form for embeddings, the on-disk reference table, and the raw image upload
// format. Only the dtypes the service actually exchanges are supported.
package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every parse failure in this package.
var ErrMalformed = errors.New("malformed npy payload")

var magic = []byte("\x93NUMPY")

const headerAlign = 64

// Header is the parsed npy preamble. Descr holds the dtype string for plain
// arrays; Fields is populated instead when the dtype is a structured record.
type Header struct {
	Descr        string
	Fields       []Field
	FortranOrder bool
	Shape        []int
}

// Field is one member of a structured dtype, e.g. ('embedding', '<f4', (512,)).
type Field struct {
	Name  string
	Descr string
	Shape []int
}

// itemSize returns the byte width of a plain dtype descr like "<f4" or "|u1".
func itemSize(descr string) (int, error) {
	if len(descr) < 3 {
		return 0, fmt.Errorf("%w: unsupported dtype %q", ErrMalformed, descr)
	}
	size, err := strconv.Atoi(descr[2:])
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("%w: unsupported dtype %q", ErrMalformed, descr)
	}
	return size, nil
}

// ParseHeader consumes the npy magic, version and header dict from data and
// returns the parsed header plus the offset where the array body begins.
func ParseHeader(data []byte) (*Header, int, error) {
	if len(data) < len(magic)+4 {
		return nil, 0, fmt.Errorf("%w: truncated preamble", ErrMalformed)
	}
	if string(data[:len(magic)]) != string(magic) {
		return nil, 0, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	major := data[6]
	offset := len(magic) + 2

	var headerLen int
	switch major {
	case 1:
		if len(data) < offset+2 {
			return nil, 0, fmt.Errorf("%w: truncated header length", ErrMalformed)
		}
		headerLen = int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2
	case 2, 3:
		if len(data) < offset+4 {
			return nil, 0, fmt.Errorf("%w: truncated header length", ErrMalformed)
		}
		headerLen = int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
	default:
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrMalformed, major)
	}
	if len(data) < offset+headerLen {
		return nil, 0, fmt.Errorf("%w: truncated header", ErrMalformed)
	}

	header, err := parseHeaderDict(string(data[offset : offset+headerLen]))
	if err != nil {
		return nil, 0, err
	}
	return header, offset + headerLen, nil
}

// parseHeaderDict parses the Python dict literal NumPy writes, e.g.
// {'descr': '<f4', 'fortran_order': False, 'shape': (512,), }
func parseHeaderDict(dict string) (*Header, error) {
	header := &Header{}

	descrStart := strings.Index(dict, "'descr'")
	orderStart := strings.Index(dict, "'fortran_order'")
	shapeStart := strings.Index(dict, "'shape'")
	if descrStart < 0 || orderStart < 0 || shapeStart < 0 {
		return nil, fmt.Errorf("%w: header keys missing", ErrMalformed)
	}

	descrValue := strings.TrimSpace(strings.TrimPrefix(valueAfterKey(dict, descrStart+len("'descr'")), ":"))
	if strings.HasPrefix(descrValue, "[") {
		fields, err := parseFields(descrValue)
		if err != nil {
			return nil, err
		}
		header.Fields = fields
	} else {
		descr, err := parseQuoted(descrValue)
		if err != nil {
			return nil, err
		}
		header.Descr = descr
	}

	orderValue := strings.TrimSpace(strings.TrimPrefix(valueAfterKey(dict, orderStart+len("'fortran_order'")), ":"))
	header.FortranOrder = strings.HasPrefix(orderValue, "True")

	shapeValue := strings.TrimSpace(strings.TrimPrefix(valueAfterKey(dict, shapeStart+len("'shape'")), ":"))
	shape, err := parseShape(shapeValue)
	if err != nil {
		return nil, err
	}
	header.Shape = shape
	return header, nil
}

// valueAfterKey slices dict from the byte following a key to the end; the
// individual value parsers stop at the first token they understand.
func valueAfterKey(dict string, from int) string {
	return strings.TrimSpace(dict[from:])
}

func parseQuoted(s string) (string, error) {
	if len(s) == 0 || s[0] != '\'' {
		return "", fmt.Errorf("%w: expected quoted string in header", ErrMalformed)
	}
	end := strings.IndexByte(s[1:], '\'')
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string in header", ErrMalformed)
	}
	return s[1 : 1+end], nil
}

func parseShape(s string) ([]int, error) {
	if len(s) == 0 || s[0] != '(' {
		return nil, fmt.Errorf("%w: expected shape tuple", ErrMalformed)
	}
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated shape tuple", ErrMalformed)
	}
	inner := s[1:end]
	dims := make([]int, 0, 3)
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(part)
		if err != nil || dim < 0 {
			return nil, fmt.Errorf("%w: bad shape dimension %q", ErrMalformed, part)
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

// parseFields parses a structured dtype literal such as
// [('id', '<i8'), ('embedding', '<f4', (512,))]
func parseFields(s string) ([]Field, error) {
	end := strings.LastIndexByte(s, ']')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated dtype list", ErrMalformed)
	}
	rest := s[1:end]
	var fields []Field
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open:], ')')
		if closing < 0 {
			return nil, fmt.Errorf("%w: unterminated dtype field", ErrMalformed)
		}
		// an inner shape tuple nests one more ')'
		inner := rest[open+1 : open+closing]
		if strings.Count(inner, "(") > strings.Count(inner, ")") {
			next := strings.IndexByte(rest[open+closing+1:], ')')
			if next < 0 {
				return nil, fmt.Errorf("%w: unterminated dtype field", ErrMalformed)
			}
			closing += next + 1
			inner = rest[open+1 : open+closing]
		}
		field, err := parseField(inner)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		rest = rest[open+closing+1:]
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty dtype list", ErrMalformed)
	}
	return fields, nil
}

func parseField(inner string) (Field, error) {
	field := Field{}
	name, err := parseQuoted(strings.TrimSpace(inner))
	if err != nil {
		return field, err
	}
	field.Name = name

	rest := strings.TrimSpace(inner)
	rest = rest[strings.IndexByte(rest, ',')+1:]
	rest = strings.TrimSpace(rest)
	descr, err := parseQuoted(rest)
	if err != nil {
		return field, err
	}
	field.Descr = descr

	if tupleStart := strings.IndexByte(rest, '('); tupleStart >= 0 {
		shape, err := parseShape(rest[tupleStart:])
		if err != nil {
			return field, err
		}
		field.Shape = shape
	}
	return field, nil
}

// encodeHeader renders the v1.0 preamble for a plain little-endian 1-D array,
// padded so the body starts at a 64 byte boundary the way np.save does.
func encodeHeader(descr string, n int) []byte {
	return encodeHeaderDict(fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%d,), }", descr, n))
}

func encodeImageHeader(width, height int) []byte {
	return encodeHeaderDict(fmt.Sprintf("{'descr': '|u1', 'fortran_order': False, 'shape': (%d, %d, 3), }", height, width))
}

func encodeHeaderDict(dict string) []byte {
	preambleLen := len(magic) + 2 + 2
	padded := preambleLen + len(dict) + 1
	if rem := padded % headerAlign; rem != 0 {
		padded += headerAlign - rem
	}
	dict = dict + strings.Repeat(" ", padded-preambleLen-len(dict)-1) + "\n"

	out := make([]byte, 0, padded)
	out = append(out, magic...)
	out = append(out, 1, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(dict)))
	out = append(out, dict...)
	return out
}
