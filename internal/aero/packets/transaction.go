package packets

import "github.com/JS-HobbySoft/aero/internal/aero/signalunit"

// ISU is the opening user-data initial signal unit: byte 0 is TagISU, bytes
// 1-2 are the declared total payload length (big-endian), bytes 3-9 carry
// the first 7 payload bytes, and bytes 10-11 are the unit's CRC.
type ISU struct {
	Unit      signalunit.Unit
	Declared  int // Declared total user-data byte length, from bytes 1-2.
	Fragment  [7]byte
	FragLen   int
}

// NewISU parses a validated ISU signal unit.
func NewISU(u signalunit.Unit) ISU {
	declared := int(u.Buf[1])<<8 | int(u.Buf[2])
	var isu ISU
	isu.Unit = u
	isu.Declared = declared
	copy(isu.Fragment[:], u.Buf[3:10])
	isu.FragLen = 7
	return isu
}

// SSU is a subsequent signal unit: byte 0's top two bits are set, byte 1 is
// the sequence number (0 terminates the transaction), bytes 2-9 carry 8
// payload bytes, bytes 10-11 are the CRC.
type SSU struct {
	Unit     signalunit.Unit
	SeqNo    byte
	Fragment [8]byte
}

// NewSSU parses a validated SSU signal unit.
func NewSSU(u signalunit.Unit) SSU {
	var s SSU
	s.Unit = u
	s.SeqNo = u.Buf[1]
	copy(s.Fragment[:], u.Buf[2:10])
	return s
}

// Transaction tracks an in-progress user-data reassembly: at most one ISU
// is active at a time, with SSUs appended in arrival order until a seq-0
// SSU closes it (spec.md §3/§4.I).
type Transaction struct {
	ISU    ISU
	SSUs   []SSU
	Active bool
}

// BeginISU starts a new transaction, discarding any prior in-progress one
// without emission (spec.md §4.I: "If a new ISU arrives while a
// transaction is active, discard the prior transaction without emission").
func (t *Transaction) BeginISU(u signalunit.Unit) {
	t.ISU = NewISU(u)
	t.SSUs = t.SSUs[:0]
	t.Active = true
}

// AppendSSU appends an SSU to the active transaction and reports whether
// the SSU's seq_no==0 closed it. Callers must check Active before calling;
// AppendSSU on an inactive transaction is a no-op returning false.
func (t *Transaction) AppendSSU(u signalunit.Unit) (closed bool) {
	if !t.Active {
		return false
	}
	s := NewSSU(u)
	t.SSUs = append(t.SSUs, s)
	if s.SeqNo == 0 {
		t.Active = false
		return true
	}
	return false
}

// Payload reconstructs the user-data byte stream: the ISU's payload
// fragment, then each SSU's fragment in arrival order, trimmed to the
// ISU's declared byte length (spec.md §3: "concatenation of the payload
// slices of isu followed by ssu[] in arrival order, trimmed per the ISU's
// declared byte length").
func (t *Transaction) Payload() []byte {
	buf := make([]byte, 0, t.ISU.FragLen+len(t.SSUs)*8)
	buf = append(buf, t.ISU.Fragment[:t.ISU.FragLen]...)
	for _, s := range t.SSUs {
		buf = append(buf, s.Fragment[:]...)
	}
	if t.Declared() < len(buf) {
		buf = buf[:t.Declared()]
	}
	return buf
}

// Declared returns the ISU's declared total payload length.
func (t *Transaction) Declared() int { return t.ISU.Declared }
