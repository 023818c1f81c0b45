package readfiles

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

type dataArray struct {
	Type               string `xml:"type,attr"`
	Name               string `xml:"Name,attr"`
	NumberOfComponents int    `xml:"NumberOfComponents,attr"`
	Format             string `xml:"format,attr"`
	Offset             int    `xml:"offset,attr"`
	Text               string `xml:",chardata"`
}

func (da *dataArray) Components() int {
	if da.NumberOfComponents < 1 {
		return 1
	}
	return da.NumberOfComponents
}

// arrayDecoder carries the file level attributes needed to turn the payload of
// a DataArray into numbers
type arrayDecoder struct {
	order          binary.ByteOrder
	headerSize     int // Bytes per block header entry, 4 for UInt32 and 8 for UInt64
	compressed     bool
	appended       []byte
	appendedBase64 bool
}

func newArrayDecoder(byteOrder, headerType, compressor string) (ad *arrayDecoder, err error) {
	ad = &arrayDecoder{}
	switch byteOrder {
	case "", "LittleEndian":
		ad.order = binary.LittleEndian
	case "BigEndian":
		ad.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("unknown byte_order %q", byteOrder)
	}
	switch headerType {
	case "", "UInt32":
		ad.headerSize = 4
	case "UInt64":
		ad.headerSize = 8
	default:
		return nil, fmt.Errorf("unsupported header_type %q", headerType)
	}
	switch compressor {
	case "":
	case "vtkZLibDataCompressor":
		ad.compressed = true
	default:
		return nil, fmt.Errorf("unsupported compressor %q", compressor)
	}
	return
}

func typeSize(vtkType string) (size int, err error) {
	switch vtkType {
	case "Int8", "UInt8":
		size = 1
	case "Int16", "UInt16":
		size = 2
	case "Int32", "UInt32", "Float32":
		size = 4
	case "Int64", "UInt64", "Float64":
		size = 8
	default:
		err = fmt.Errorf("unsupported data type %q", vtkType)
	}
	return
}

// Floats decodes any supported array into float64 values
func (ad *arrayDecoder) Floats(da *dataArray) (vals []float64, err error) {
	var (
		raw []byte
	)
	if _, err = typeSize(da.Type); err != nil {
		return
	}
	switch da.Format {
	case "ascii":
		return parseASCII(da.Text)
	case "binary":
		if raw, err = ad.decodeBase64Array(stripSpace(da.Text)); err != nil {
			return nil, fmt.Errorf("array %q: %w", da.Name, err)
		}
	case "appended":
		if ad.appended == nil {
			return nil, fmt.Errorf("array %q is appended but the file has no AppendedData", da.Name)
		}
		if da.Offset < 0 || da.Offset > len(ad.appended) {
			return nil, fmt.Errorf("array %q: offset %d outside appended data of %d bytes",
				da.Name, da.Offset, len(ad.appended))
		}
		if ad.appendedBase64 {
			raw, err = ad.decodeBase64Array(stripSpace(string(ad.appended[da.Offset:])))
		} else {
			raw, err = ad.decodeRawArray(ad.appended[da.Offset:])
		}
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", da.Name, err)
		}
	default:
		return nil, fmt.Errorf("array %q: unsupported format %q", da.Name, da.Format)
	}
	return ad.convert(da.Type, raw)
}

// Ints decodes an index array, values must be integral
func (ad *arrayDecoder) Ints(da *dataArray) (ints []int, err error) {
	var (
		vals []float64
	)
	if vals, err = ad.Floats(da); err != nil {
		return
	}
	ints = make([]int, len(vals))
	for i, v := range vals {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("array %q: non integer value %v at %d", da.Name, v, i)
		}
		ints[i] = int(v)
	}
	return
}

func parseASCII(text string) (vals []float64, err error) {
	fields := strings.Fields(text)
	vals = make([]float64, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, fmt.Errorf("ascii value %d: %w", i, err)
		}
	}
	return
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func base64Len(nBytes int) int { return 4 * ((nBytes + 2) / 3) }

func decodeBase64(s string, nBytes int) (b []byte, err error) {
	n := base64Len(nBytes)
	if len(s) < n {
		return nil, fmt.Errorf("base64 block needs %d characters, %d remain", n, len(s))
	}
	if b, err = base64.StdEncoding.DecodeString(s[:n]); err != nil {
		return nil, err
	}
	if len(b) < nBytes {
		return nil, fmt.Errorf("base64 block decoded to %d bytes, need %d", len(b), nBytes)
	}
	return b[:nBytes], nil
}

// header reads entry i of a binary block header. Entries are byte or block
// counts, so a value above limit means the block is corrupt
func (ad *arrayDecoder) header(b []byte, i, limit int) (n int, err error) {
	var (
		hs = ad.headerSize
		v  uint64
	)
	if hs == 8 {
		v = ad.order.Uint64(b[i*hs:])
	} else {
		v = uint64(ad.order.Uint32(b[i*hs:]))
	}
	if limit < 0 || v > uint64(limit) {
		return 0, fmt.Errorf("header entry %d is %d, larger than the %d bytes present", i, v, limit)
	}
	return int(v), nil
}

// decodeBase64Array reads a base64 header block followed by a separately
// encoded data block
func (ad *arrayDecoder) decodeBase64Array(s string) (raw []byte, err error) {
	var (
		hs = ad.headerSize
		hb []byte
	)
	if !ad.compressed {
		if hb, err = decodeBase64(s, hs); err != nil {
			return
		}
		var nBytes int
		if nBytes, err = ad.header(hb, 0, len(s)); err != nil {
			return
		}
		return decodeBase64(s[base64Len(hs):], nBytes)
	}
	if hb, err = decodeBase64(s, 3*hs); err != nil {
		return
	}
	var (
		nBlocks, total int
		sizes          []int
		payload        []byte
	)
	if nBlocks, err = ad.header(hb, 0, len(s)); err != nil {
		return
	}
	if hb, err = decodeBase64(s, (3+nBlocks)*hs); err != nil {
		return
	}
	if sizes, total, err = ad.blockSizes(hb, nBlocks, len(s)); err != nil {
		return
	}
	if payload, err = decodeBase64(s[base64Len((3+nBlocks)*hs):], total); err != nil {
		return
	}
	return ad.inflate(hb, payload, sizes)
}

func (ad *arrayDecoder) decodeRawArray(b []byte) (raw []byte, err error) {
	var (
		hs = ad.headerSize
	)
	if !ad.compressed {
		if len(b) < hs {
			return nil, fmt.Errorf("appended block too short for header")
		}
		nBytes, err := ad.header(b, 0, len(b))
		if err != nil {
			return nil, err
		}
		if len(b) < hs+nBytes {
			return nil, fmt.Errorf("appended block needs %d bytes, %d remain", nBytes, len(b)-hs)
		}
		return b[hs : hs+nBytes], nil
	}
	if len(b) < 3*hs {
		return nil, fmt.Errorf("appended block too short for compression header")
	}
	nBlocks, err := ad.header(b, 0, len(b))
	if err != nil {
		return nil, err
	}
	hLen := (3 + nBlocks) * hs
	if len(b) < hLen {
		return nil, fmt.Errorf("appended block too short for %d compressed blocks", nBlocks)
	}
	sizes, total, err := ad.blockSizes(b[:hLen], nBlocks, len(b))
	if err != nil {
		return nil, err
	}
	if len(b) < hLen+total {
		return nil, fmt.Errorf("compressed blocks need %d bytes, %d remain", total, len(b)-hLen)
	}
	return ad.inflate(b[:hLen], b[hLen:hLen+total], sizes)
}

func (ad *arrayDecoder) blockSizes(hb []byte, nBlocks, limit int) (sizes []int, total int, err error) {
	sizes = make([]int, nBlocks)
	for i := range sizes {
		if sizes[i], err = ad.header(hb, 3+i, limit); err != nil {
			return
		}
		total += sizes[i]
	}
	return
}

// inflate decompresses each zlib block, the header holds
// [nBlocks, blockSize, lastBlockSize, compressedSize...]
func (ad *arrayDecoder) inflate(hb, payload []byte, sizes []int) (raw []byte, err error) {
	var (
		nBlocks             = len(sizes)
		blockSize, lastSize int
		start               int
		out                 bytes.Buffer
	)
	if blockSize, err = ad.header(hb, 1, math.MaxInt); err != nil {
		return
	}
	if lastSize, err = ad.header(hb, 2, math.MaxInt); err != nil {
		return
	}
	for i, size := range sizes {
		expect := blockSize
		if i == nBlocks-1 && lastSize != 0 {
			expect = lastSize
		}
		var zr io.ReadCloser
		if zr, err = zlib.NewReader(bytes.NewReader(payload[start : start+size])); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		n, rerr := io.Copy(&out, zr)
		zr.Close()
		if rerr != nil {
			return nil, fmt.Errorf("block %d: %w", i, rerr)
		}
		if int(n) != expect {
			return nil, fmt.Errorf("block %d inflated to %d bytes, header says %d", i, n, expect)
		}
		start += size
	}
	return out.Bytes(), nil
}

func (ad *arrayDecoder) convert(vtkType string, raw []byte) (vals []float64, err error) {
	var (
		size int
		o    = ad.order
	)
	if size, err = typeSize(vtkType); err != nil {
		return
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %s values", len(raw), vtkType)
	}
	vals = make([]float64, len(raw)/size)
	for i := range vals {
		b := raw[i*size:]
		switch vtkType {
		case "Int8":
			vals[i] = float64(int8(b[0]))
		case "UInt8":
			vals[i] = float64(b[0])
		case "Int16":
			vals[i] = float64(int16(o.Uint16(b)))
		case "UInt16":
			vals[i] = float64(o.Uint16(b))
		case "Int32":
			vals[i] = float64(int32(o.Uint32(b)))
		case "UInt32":
			vals[i] = float64(o.Uint32(b))
		case "Int64":
			vals[i] = float64(int64(o.Uint64(b)))
		case "UInt64":
			vals[i] = float64(o.Uint64(b))
		case "Float32":
			vals[i] = float64(math.Float32frombits(o.Uint32(b)))
		case "Float64":
			vals[i] = math.Float64frombits(o.Uint64(b))
		}
	}
	return
}
