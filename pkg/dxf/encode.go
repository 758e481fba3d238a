package dxf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// binarySentinel opens every binary DXF file.
var binarySentinel = []byte("AutoCAD Binary DXF\r\n\x1a\x00")

// valueKind is the wire type of a group code's value, shared by the
// binary encoder and decoder.
type valueKind int

const (
	kindString valueKind = iota
	kindFloat
	kindInt16
	kindInt32
	kindInt8
	kindBool
)

// codeKind maps a group code to its value type per the DXF group code
// ranges. Codes we never emit still need a correct mapping so the binary
// decoder can skip them.
func codeKind(code int) valueKind {
	switch {
	case code >= 10 && code <= 59:
		return kindFloat
	case code >= 60 && code <= 79:
		return kindInt16
	case code >= 90 && code <= 99:
		return kindInt32
	case code >= 110 && code <= 149:
		return kindFloat
	case code >= 170 && code <= 179:
		return kindInt16
	case code >= 210 && code <= 239:
		return kindFloat
	case code >= 270 && code <= 279:
		return kindInt16
	case code >= 280 && code <= 289:
		return kindInt8
	case code >= 290 && code <= 299:
		return kindBool
	case code >= 370 && code <= 389:
		return kindInt8
	case code >= 400 && code <= 409:
		return kindInt16
	case code >= 420 && code <= 429:
		return kindInt32
	case code >= 440 && code <= 459:
		return kindInt32
	case code >= 460 && code <= 469:
		return kindFloat
	case code >= 1010 && code <= 1059:
		return kindFloat
	case code >= 1060 && code <= 1070:
		return kindInt16
	case code == 1071:
		return kindInt32
	default:
		return kindString
	}
}

// tagWriter emits group code/value pairs in either encoding.
type tagWriter struct {
	w      *bufio.Writer
	binary bool
	err    error
}

func (tw *tagWriter) tag(code int, value string) {
	if tw.err != nil {
		return
	}
	if !tw.binary {
		_, tw.err = fmt.Fprintf(tw.w, "%3d\r\n%s\r\n", code, value)
		return
	}

	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], uint16(code))
	if _, tw.err = tw.w.Write(buf[:2]); tw.err != nil {
		return
	}
	switch codeKind(code) {
	case kindString:
		if _, tw.err = tw.w.WriteString(value); tw.err != nil {
			return
		}
		tw.err = tw.w.WriteByte(0)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			tw.err = err
			return
		}
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(f))
		_, tw.err = tw.w.Write(buf[:8])
	case kindInt16:
		n, err := strconv.Atoi(value)
		if err != nil {
			tw.err = err
			return
		}
		binary.LittleEndian.PutUint16(buf[:2], uint16(int16(n)))
		_, tw.err = tw.w.Write(buf[:2])
	case kindInt32:
		n, err := strconv.Atoi(value)
		if err != nil {
			tw.err = err
			return
		}
		binary.LittleEndian.PutUint32(buf[:4], uint32(int32(n)))
		_, tw.err = tw.w.Write(buf[:4])
	case kindInt8, kindBool:
		n, err := strconv.Atoi(value)
		if err != nil {
			tw.err = err
			return
		}
		tw.err = tw.w.WriteByte(byte(n))
	}
}

func (tw *tagWriter) float(code int, v float64) {
	tw.tag(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (tw *tagWriter) int(code, v int) {
	tw.tag(code, strconv.Itoa(v))
}

// Encode writes the document to w, in binary or ASCII encoding.
func Encode(w io.Writer, d *Document, asBinary bool) error {
	bw := bufio.NewWriter(w)
	tw := &tagWriter{w: bw, binary: asBinary}

	if asBinary {
		if _, err := bw.Write(binarySentinel); err != nil {
			return err
		}
	}

	acadVer, ok := acadVersions[d.Version]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, d.Version)
	}

	tw.tag(0, "SECTION")
	tw.tag(2, "HEADER")
	tw.tag(9, "$ACADVER")
	tw.tag(1, acadVer)
	if d.ProjCS != "" {
		tw.tag(9, "$PROJCS")
		tw.tag(1, d.ProjCS)
	}
	if d.ProjZone != 0 {
		tw.tag(9, "$PROJZONE")
		tw.int(70, d.ProjZone)
	}
	tw.tag(0, "ENDSEC")

	tw.tag(0, "SECTION")
	tw.tag(2, "ENTITIES")
	for i := range d.Entities {
		encodeEntity(tw, &d.Entities[i])
	}
	tw.tag(0, "ENDSEC")
	tw.tag(0, "EOF")

	if tw.err != nil {
		return tw.err
	}
	return bw.Flush()
}

func encodeEntity(tw *tagWriter, e *Entity) {
	layer := e.Layer
	if layer == "" {
		layer = "0"
	}

	switch e.Type {
	case EntityPoint:
		tw.tag(0, "POINT")
		tw.tag(8, layer)
		tw.float(10, e.Location.X)
		tw.float(20, e.Location.Y)
		tw.float(30, e.Location.Z)
	case EntityLine:
		tw.tag(0, "LINE")
		tw.tag(8, layer)
		tw.float(10, e.Start.X)
		tw.float(20, e.Start.Y)
		tw.float(30, e.Start.Z)
		tw.float(11, e.End.X)
		tw.float(21, e.End.Y)
		tw.float(31, e.End.Z)
	case EntityLWPolyline:
		tw.tag(0, "LWPOLYLINE")
		tw.tag(8, layer)
		tw.int(90, len(e.Vertices))
		tw.int(70, e.flags)
		if e.hasElevation {
			tw.float(38, e.elevation)
		}
		for _, v := range e.Vertices {
			tw.float(10, v.X)
			tw.float(20, v.Y)
		}
	case EntityPolyline:
		tw.tag(0, "POLYLINE")
		tw.tag(8, layer)
		tw.int(66, 1)
		tw.int(70, e.flags)
		for _, v := range e.Vertices {
			tw.tag(0, "VERTEX")
			tw.tag(8, layer)
			tw.float(10, v.X)
			tw.float(20, v.Y)
			tw.float(30, v.Z)
		}
		tw.tag(0, "SEQEND")
	case EntityCircle:
		tw.tag(0, "CIRCLE")
		tw.tag(8, layer)
		tw.float(10, e.Center.X)
		tw.float(20, e.Center.Y)
		tw.float(30, e.Center.Z)
		tw.float(40, e.Radius)
	}
}

// SaveAs writes the document to path, in binary or ASCII encoding.
func (d *Document) SaveAs(path string, asBinary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, d, asBinary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
