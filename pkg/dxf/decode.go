package dxf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed reports a drawing that could not be parsed.
var ErrMalformed = errors.New("dxf: malformed drawing")

// tag is one group code/value pair. Binary values are canonicalized to
// their text form so both encodings share one document builder.
type tag struct {
	code  int
	value string
}

// ReadFile reads a drawing from path, auto-detecting the binary sentinel.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a drawing from raw bytes, in either encoding.
func Decode(data []byte) (*Document, error) {
	var (
		tags []tag
		err  error
	)
	if bytes.HasPrefix(data, binarySentinel) {
		tags, err = decodeBinaryTags(data[len(binarySentinel):])
	} else {
		tags, err = decodeTextTags(data)
	}
	if err != nil {
		return nil, err
	}
	return buildDocument(tags)
}

func decodeTextTags(data []byte) ([]tag, error) {
	lines := strings.Split(string(data), "\n")
	// Drop a trailing empty line from the final newline.
	if len(lines) > 0 && strings.TrimRight(lines[len(lines)-1], "\r") == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of lines, group code without value", ErrMalformed)
	}

	tags := make([]tag, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		codeStr := strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad group code %q at line %d", ErrMalformed, codeStr, i+1)
		}
		tags = append(tags, tag{code: code, value: strings.TrimRight(lines[i+1], "\r")})
	}
	return tags, nil
}

func decodeBinaryTags(data []byte) ([]tag, error) {
	var tags []tag
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated binary group code", ErrMalformed)
		}
		code := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2

		var value string
		switch codeKind(code) {
		case kindString:
			end := bytes.IndexByte(data[pos:], 0)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string value for code %d", ErrMalformed, code)
			}
			value = string(data[pos : pos+end])
			pos += end + 1
		case kindFloat:
			if pos+8 > len(data) {
				return nil, fmt.Errorf("%w: truncated float value for code %d", ErrMalformed, code)
			}
			f := math.Float64frombits(binary.LittleEndian.Uint64(data[pos : pos+8]))
			value = strconv.FormatFloat(f, 'f', -1, 64)
			pos += 8
		case kindInt16:
			if pos+2 > len(data) {
				return nil, fmt.Errorf("%w: truncated int16 value for code %d", ErrMalformed, code)
			}
			value = strconv.Itoa(int(int16(binary.LittleEndian.Uint16(data[pos : pos+2]))))
			pos += 2
		case kindInt32:
			if pos+4 > len(data) {
				return nil, fmt.Errorf("%w: truncated int32 value for code %d", ErrMalformed, code)
			}
			value = strconv.Itoa(int(int32(binary.LittleEndian.Uint32(data[pos : pos+4]))))
			pos += 4
		case kindInt8, kindBool:
			if pos+1 > len(data) {
				return nil, fmt.Errorf("%w: truncated byte value for code %d", ErrMalformed, code)
			}
			value = strconv.Itoa(int(data[pos]))
			pos++
		}
		tags = append(tags, tag{code: code, value: value})
	}
	return tags, nil
}

// buildDocument folds a tag stream into a Document. Unknown sections,
// header variables and entity types are retained or skipped without
// failing; only structural damage is an error.
func buildDocument(tags []tag) (*Document, error) {
	doc := &Document{Version: VersionR2018}

	section := ""
	headerVar := ""
	var current *Entity
	var polyline *Entity // open POLYLINE collecting VERTEX entities

	flush := func() {
		if current != nil && current != polyline {
			if polyline != nil && current.Type == "VERTEX" {
				polyline.Vertices = append(polyline.Vertices, current.Location)
			} else {
				doc.Entities = append(doc.Entities, *current)
			}
		}
		current = nil
	}

	for i := 0; i < len(tags); i++ {
		t := tags[i]

		if t.code == 0 {
			switch t.value {
			case "SECTION":
				flush()
				section = ""
				if i+1 < len(tags) && tags[i+1].code == 2 {
					section = tags[i+1].value
					i++
				}
				continue
			case "ENDSEC":
				flush()
				if polyline != nil {
					doc.Entities = append(doc.Entities, *polyline)
					polyline = nil
				}
				section = ""
				continue
			case "EOF":
				flush()
				continue
			}

			if section == "ENTITIES" {
				flush()
				switch t.value {
				case "SEQEND":
					if polyline != nil {
						doc.Entities = append(doc.Entities, *polyline)
						polyline = nil
					}
				case string(EntityPolyline):
					polyline = &Entity{Type: EntityPolyline}
					current = polyline
				default:
					current = &Entity{Type: EntityType(t.value)}
				}
			}
			continue
		}

		switch section {
		case "HEADER":
			if t.code == 9 {
				headerVar = t.value
				continue
			}
			switch headerVar {
			case "$ACADVER":
				if t.code == 1 {
					doc.Version = versionFromACADVer(t.value)
				}
			case "$PROJCS":
				if t.code == 1 {
					doc.ProjCS = t.value
				}
			case "$PROJZONE":
				if t.code == 70 || t.code == 90 {
					zone, err := strconv.Atoi(strings.TrimSpace(t.value))
					if err != nil {
						return nil, fmt.Errorf("%w: bad $PROJZONE value %q", ErrMalformed, t.value)
					}
					doc.ProjZone = zone
				} else if t.code == 1 {
					// Some writers store the zone as text.
					if zone, err := strconv.Atoi(strings.TrimSpace(t.value)); err == nil {
						doc.ProjZone = zone
					}
				}
			}
		case "ENTITIES":
			if current == nil {
				continue
			}
			if err := applyEntityTag(current, t); err != nil {
				return nil, err
			}
		}
	}

	flush()
	if polyline != nil {
		doc.Entities = append(doc.Entities, *polyline)
	}
	return doc, nil
}

// applyEntityTag assigns one group code to the entity under construction.
func applyEntityTag(e *Entity, t tag) error {
	assignFloat := func(dst *float64) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(t.value), 64)
		if err != nil {
			return fmt.Errorf("%w: bad coordinate %q for code %d", ErrMalformed, t.value, t.code)
		}
		*dst = f
		return nil
	}

	switch t.code {
	case 8:
		e.Layer = t.value
		return nil
	case 70:
		n, err := strconv.Atoi(strings.TrimSpace(t.value))
		if err != nil {
			return fmt.Errorf("%w: bad flags %q", ErrMalformed, t.value)
		}
		e.flags = n
		e.hasFlags = true
		return nil
	case 38:
		e.hasElevation = true
		return assignFloat(&e.elevation)
	case 40:
		if e.Type == EntityCircle {
			return assignFloat(&e.Radius)
		}
		return nil
	}

	switch e.Type {
	case EntityPoint, "VERTEX":
		switch t.code {
		case 10:
			return assignFloat(&e.Location.X)
		case 20:
			return assignFloat(&e.Location.Y)
		case 30:
			return assignFloat(&e.Location.Z)
		}
	case EntityLine:
		switch t.code {
		case 10:
			return assignFloat(&e.Start.X)
		case 20:
			return assignFloat(&e.Start.Y)
		case 30:
			return assignFloat(&e.Start.Z)
		case 11:
			return assignFloat(&e.End.X)
		case 21:
			return assignFloat(&e.End.Y)
		case 31:
			return assignFloat(&e.End.Z)
		}
	case EntityLWPolyline:
		switch t.code {
		case 10:
			// Code 10 starts a new vertex; code 20 completes it.
			e.Vertices = append(e.Vertices, Point{})
			return assignFloat(&e.Vertices[len(e.Vertices)-1].X)
		case 20:
			if len(e.Vertices) == 0 {
				return fmt.Errorf("%w: LWPOLYLINE y coordinate before x", ErrMalformed)
			}
			return assignFloat(&e.Vertices[len(e.Vertices)-1].Y)
		}
	case EntityCircle:
		switch t.code {
		case 10:
			return assignFloat(&e.Center.X)
		case 20:
			return assignFloat(&e.Center.Y)
		case 30:
			return assignFloat(&e.Center.Z)
		}
	}
	return nil
}

func versionFromACADVer(acadVer string) Version {
	for v, name := range acadVersions {
		if name == acadVer {
			return v
		}
	}
	// Unknown releases still parse; keep the raw value visible.
	return Version(acadVer)
}
