package npy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ReadVector decodes a 1-D float array. "<f4" round-trips exactly with
// WriteVector; "<f8" and "<f2" are accepted for callers that serialized at a
// different precision.
func ReadVector(data []byte) ([]float32, error) {
	header, offset, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Fields != nil {
		return nil, fmt.Errorf("%w: expected plain array, got structured dtype", ErrMalformed)
	}
	if header.FortranOrder {
		return nil, fmt.Errorf("%w: fortran order not supported", ErrMalformed)
	}
	if len(header.Shape) != 1 {
		return nil, fmt.Errorf("%w: expected 1-D array, got shape %v", ErrMalformed, header.Shape)
	}
	n := header.Shape[0]
	body := data[offset:]

	switch header.Descr {
	case "<f4":
		if len(body) < 4*n {
			return nil, fmt.Errorf("%w: truncated body", ErrMalformed)
		}
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
		}
		return out, nil
	case "<f8":
		if len(body) < 8*n {
			return nil, fmt.Errorf("%w: truncated body", ErrMalformed)
		}
		out := make([]float32, n)
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(body[8*i:])))
		}
		return out, nil
	case "<f2":
		if len(body) < 2*n {
			return nil, fmt.Errorf("%w: truncated body", ErrMalformed)
		}
		out := make([]float32, n)
		for i := range out {
			out[i] = halfToFloat32(binary.LittleEndian.Uint16(body[2*i:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrMalformed, header.Descr)
	}
}

// ReadImage decodes a uint8 (height, width, 3) array into row-major BGR-or-RGB
// bytes; the caller owns channel interpretation.
func ReadImage(data []byte) (pixels []byte, width, height int, err error) {
	header, offset, err := ParseHeader(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if header.Fields != nil || header.FortranOrder {
		return nil, 0, 0, fmt.Errorf("%w: expected plain C-order array", ErrMalformed)
	}
	if header.Descr != "|u1" && header.Descr != "<u1" && header.Descr != "u1" {
		return nil, 0, 0, fmt.Errorf("%w: expected uint8 image array, got %q", ErrMalformed, header.Descr)
	}
	if len(header.Shape) != 3 || header.Shape[2] != 3 {
		return nil, 0, 0, fmt.Errorf("%w: expected (h, w, 3) image array, got shape %v", ErrMalformed, header.Shape)
	}
	height, width = header.Shape[0], header.Shape[1]
	need := height * width * 3
	body := data[offset:]
	if len(body) < need {
		return nil, 0, 0, fmt.Errorf("%w: truncated body", ErrMalformed)
	}
	return body[:need], width, height, nil
}

// Table is the decoded structured reference array: parallel, index-aligned
// id and embedding columns.
type Table struct {
	Ids        []int64
	Embeddings [][]float32
}

// ReadTable decodes a structured array with an integer 'id' field and a
// float32 'embedding' vector field, e.g.
// [('id', '<i8'), ('embedding', '<f4', (512,))].
func ReadTable(data []byte) (*Table, error) {
	header, offset, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Fields == nil {
		return nil, fmt.Errorf("%w: expected structured dtype", ErrMalformed)
	}
	if header.FortranOrder {
		return nil, fmt.Errorf("%w: fortran order not supported", ErrMalformed)
	}
	if len(header.Shape) != 1 {
		return nil, fmt.Errorf("%w: expected 1-D record array, got shape %v", ErrMalformed, header.Shape)
	}

	var idField, embField *Field
	rowSize := 0
	offsets := make(map[string]int, len(header.Fields))
	for i := range header.Fields {
		field := &header.Fields[i]
		size, err := itemSize(field.Descr)
		if err != nil {
			return nil, err
		}
		count := 1
		for _, dim := range field.Shape {
			count *= dim
		}
		offsets[field.Name] = rowSize
		rowSize += size * count
		switch field.Name {
		case "id":
			idField = field
		case "embedding":
			embField = field
		}
	}
	if idField == nil || embField == nil {
		return nil, fmt.Errorf("%w: dtype must carry 'id' and 'embedding' fields", ErrMalformed)
	}
	if embField.Descr != "<f4" || len(embField.Shape) != 1 {
		return nil, fmt.Errorf("%w: 'embedding' must be a <f4 vector, got %q %v", ErrMalformed, embField.Descr, embField.Shape)
	}
	if idField.Descr != "<i8" && idField.Descr != "<i4" {
		return nil, fmt.Errorf("%w: 'id' must be <i4 or <i8, got %q", ErrMalformed, idField.Descr)
	}

	n := header.Shape[0]
	body := data[offset:]
	if len(body) < n*rowSize {
		return nil, fmt.Errorf("%w: truncated body", ErrMalformed)
	}

	dim := embField.Shape[0]
	table := &Table{
		Ids:        make([]int64, n),
		Embeddings: make([][]float32, n),
	}
	idOffset := offsets["id"]
	embOffset := offsets["embedding"]
	for row := 0; row < n; row++ {
		base := row * rowSize
		if idField.Descr == "<i8" {
			table.Ids[row] = int64(binary.LittleEndian.Uint64(body[base+idOffset:]))
		} else {
			table.Ids[row] = int64(int32(binary.LittleEndian.Uint32(body[base+idOffset:])))
		}
		vec := make([]float32, dim)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[base+embOffset+4*i:]))
		}
		table.Embeddings[row] = vec
	}
	return table, nil
}
