package osc

/*------------------------------------------------------------------
 *
 * Purpose:	A minimal OSC 1.0 message encoder -- the "OSC-message
 *		encoder" external collaborator spec.md section 6
 *		describes: accepts an address pattern and a list of
 *		typed arguments and returns a bit-exact OSC datagram.
 *
 * Description:	The compiler package does not depend on this; a
 *		definition's Bytes() output is carried as the bytes
 *		argument of a /d_recv message built here.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Arg is one OSC-typed argument: int32, float32, string, or []byte.
// Nested messages/bundles and bool/nil are recognized by the OSC 1.1
// extension this package does not implement; spec.md lists them among
// the external encoder's accepted types for completeness only.
type Arg interface{}

// Message builds a single, non-bundled OSC packet: the address pattern
// followed by a type-tag string and the tag-ordered argument blob, each
// padded to a 4-byte boundary per the OSC 1.0 spec.
func Message(address string, args ...Arg) ([]byte, error) {
	var buf bytes.Buffer

	writeOSCString(&buf, address)

	var tags bytes.Buffer
	tags.WriteByte(',')
	var payload bytes.Buffer

	for _, a := range args {
		switch v := a.(type) {
		case int:
			tags.WriteByte('i')
			writeOSCInt32(&payload, int32(v))
		case int32:
			tags.WriteByte('i')
			writeOSCInt32(&payload, v)
		case float32:
			tags.WriteByte('f')
			writeOSCFloat32(&payload, v)
		case float64:
			tags.WriteByte('f')
			writeOSCFloat32(&payload, float32(v))
		case string:
			tags.WriteByte('s')
			writeOSCString(&payload, v)
		case []byte:
			tags.WriteByte('b')
			writeOSCBlob(&payload, v)
		default:
			return nil, fmt.Errorf("osc: unsupported argument type %T", a)
		}
	}

	writeOSCString(&buf, tags.String())
	buf.Write(payload.Bytes())

	return buf.Bytes(), nil
}

func writeOSCString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

func writeOSCInt32(buf *bytes.Buffer, v int32) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func writeOSCFloat32(buf *bytes.Buffer, v float32) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func writeOSCBlob(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.BigEndian, int32(len(b)))
	buf.Write(b)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}
