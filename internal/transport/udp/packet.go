// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Value Count       | uint16         | 2            | Number of floats (N)    |
| Values            | []float32      | N * 4        | low, mid, high          |
+-----------------------------------------------------------------------------+
*/

// HeaderSize is the length of the fixed part of a packet.
const HeaderSize = 4 + 8 + 2

// Packet is a decoded datagram.
type Packet struct {
	Seq       uint32
	Timestamp int64
	Values    []float32
}

// Encode writes the packet into buf, replacing its contents.
func (p *Packet) Encode(buf *bytes.Buffer) error {
	buf.Reset()

	err := binary.Write(buf, binary.BigEndian, p.Seq)
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, p.Timestamp)
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint16(len(p.Values)))
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, p.Values)
	}
	return err
}

// DecodePacket parses a datagram produced by Encode.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return Packet{}, fmt.Errorf("packet too short: %d bytes", len(b))
	}

	p := Packet{
		Seq:       binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	count := int(binary.BigEndian.Uint16(b[12:14]))
	if want := HeaderSize + count*4; len(b) != want {
		return Packet{}, fmt.Errorf("packet length %d does not match %d values", len(b), count)
	}

	p.Values = make([]float32, count)
	if err := binary.Read(bytes.NewReader(b[HeaderSize:]), binary.BigEndian, p.Values); err != nil {
		return Packet{}, err
	}
	return p, nil
}
