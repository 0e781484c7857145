package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	The SCgf binary codec (spec.md section 4.11): big-endian
 *		serialization of one or more finalized definitions into
 *		the wire format scsynth expects over OSC.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"encoding/binary"
)

const (
	scgfMagic   = "SCgf"
	scgfVersion = uint32(2)
	constSentinel = uint32(0xFFFFFFFF)
)

func writePstring(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

func writeU8(buf *bytes.Buffer, v uint8)   { buf.WriteByte(v) }
func writeU16(buf *bytes.Buffer, v uint16) { binary.Write(buf, binary.BigEndian, v) }
func writeU32(buf *bytes.Buffer, v uint32) { binary.Write(buf, binary.BigEndian, v) }
func writeF32(buf *bytes.Buffer, v float32) { binary.Write(buf, binary.BigEndian, v) }

// encodeContainer serializes defs into the top-level "SCgf" container.
// When anonymous is true, each definition's name field is its content
// hash rather than its user-chosen name.
func encodeContainer(defs []*Definition, anonymous bool) []byte {
	var buf bytes.Buffer
	buf.WriteString(scgfMagic)
	writeU32(&buf, scgfVersion)
	writeU16(&buf, uint16(len(defs)))
	for _, d := range defs {
		name := d.EffectiveName()
		if anonymous {
			name = d.AnonymousName()
		}
		writePstring(&buf, name)
		buf.Write(d.body)
	}
	return buf.Bytes()
}

// encodeGraphBody serializes the name-independent graph_body of
// section 4.11: constant pool, control defaults, parameter name index,
// node records, and the zero variant-count trailer.
func encodeGraphBody(d *Definition) ([]byte, error) {
	var buf bytes.Buffer

	writeU32(&buf, uint32(len(d.constant)))
	for _, c := range d.constant {
		writeF32(&buf, c)
	}

	writeU32(&buf, uint32(len(d.controlDefaults)))
	for _, v := range d.controlDefaults {
		writeF32(&buf, v)
	}

	writeU32(&buf, uint32(len(d.params)))
	for _, p := range d.params {
		if len(p.Name) > maxPstringLen {
			return nil, newError(ErrNameTooLong, "parameter name exceeds 255 bytes: "+p.Name)
		}
		writePstring(&buf, p.Name)
		writeU32(&buf, uint32(p.StartIndex))
	}

	writeU32(&buf, uint32(len(d.nodes)))
	for _, n := range d.nodes {
		writePstring(&buf, n.Kind)
		writeU8(&buf, uint8(n.Rate))
		writeU32(&buf, uint32(len(n.Inputs)))
		writeU32(&buf, uint32(n.NumOutputs))
		writeU16(&buf, uint16(n.SpecialIndex))

		for _, in := range n.Inputs {
			switch t := in.(type) {
			case Constant:
				writeU32(&buf, constSentinel)
				writeU32(&buf, uint32(d.constIdx[t.Val]))
			case OutputRef:
				writeU32(&buf, uint32(d.indexOfNode(t.Node)))
				writeU32(&buf, uint32(t.Index))
			default:
				return nil, newNodeError(ErrBadValueType, "node input is neither Constant nor OutputRef", n.Kind)
			}
		}

		for i := 0; i < n.NumOutputs; i++ {
			writeU8(&buf, uint8(n.Rate))
		}
	}

	writeU16(&buf, 0) // variant_count, always 0

	return buf.Bytes(), nil
}
