package attendance

import (
	"time"
)

type pairState int

const (
	awaitingCheckIn pairState = iota
	awaitingCheckOut
)

func (s pairState) String() string {
	if s == awaitingCheckOut {
		return "AWAITING_CHECK_OUT"
	}
	return "AWAITING_CHECK_IN"
}

// Span is one 24/24 duty. Out is nil while the span is open. Resumed marks a
// span that was already open in storage before this batch.
type Span struct {
	In      time.Time
	Out     *time.Time
	Resumed bool
}

// pairingMachine alternates punches between check-in and check-out. The role
// of a punch depends only on the state, never on its clock time.
type pairingMachine struct {
	state pairState
	open  Span // valid while state == awaitingCheckOut
	spans []Span
}

// newPairingMachine starts closed, or open since resumeSince when the
// employee's latest stored span has no check-out yet.
func newPairingMachine(resumeSince *time.Time) *pairingMachine {
	m := &pairingMachine{state: awaitingCheckIn}
	if resumeSince != nil {
		m.state = awaitingCheckOut
		m.open = Span{In: *resumeSince, Resumed: true}
	}
	return m
}

func (m *pairingMachine) feed(at time.Time) {
	switch m.state {
	case awaitingCheckIn:
		m.open = Span{In: at}
		m.state = awaitingCheckOut
	case awaitingCheckOut:
		out := at
		m.open.Out = &out
		m.spans = append(m.spans, m.open)
		m.open = Span{}
		m.state = awaitingCheckIn
	}
}

// result returns the closed spans followed by the open one, if any. A
// resumed span that received no punch is omitted.
func (m *pairingMachine) result() []Span {
	spans := append([]Span(nil), m.spans...)
	if m.state == awaitingCheckOut && !m.open.Resumed {
		spans = append(spans, m.open)
	}
	return spans
}

// Pair24 pairs sorted punches for a 24/24 employee. Punches at or before
// resumeSince are ignored.
func Pair24(punches []time.Time, resumeSince *time.Time) []Span {
	m := newPairingMachine(resumeSince)
	for _, p := range punches {
		if resumeSince != nil && !p.After(*resumeSince) {
			continue
		}
		m.feed(p)
	}
	return m.result()
}
