package main

import (
	"encoding/json"
	"testing"
)

func TestBinaryInputRoundTrip(t *testing.T) {
	tests := []InputFrame{
		{},
		{Up: true},
		{Down: true, Left: true},
		{Right: true, FireBrandon: true},
		{FireJJ: true},
		{Up: true, Down: true, Left: true, Right: true, FireBrandon: true, FireJJ: true},
	}
	for _, in := range tests {
		msg := EncodeBinaryInput(in)
		if len(msg) != 2 || msg[0] != binaryInputTag {
			t.Fatalf("bad encoding %v", msg)
		}
		out, ok := DecodeBinaryInput(msg)
		if !ok || out != in {
			t.Errorf("round trip %+v -> %+v", in, out)
		}
	}
}

func TestBinaryInputBits(t *testing.T) {
	in, ok := DecodeBinaryInput([]byte{0x01, 0b010001})
	if !ok {
		t.Fatal("expected a valid frame")
	}
	if !in.Up || !in.FireBrandon || in.FireJJ || in.Down {
		t.Errorf("bit 0 is up and bit 4 is fire-Brandon, got %+v", in)
	}
}

func TestBinaryInputRejects(t *testing.T) {
	for _, msg := range [][]byte{nil, {0x01}, {0x02, 0x00}, {0x01, 0x00, 0x00}} {
		if _, ok := DecodeBinaryInput(msg); ok {
			t.Errorf("expected %v to be rejected", msg)
		}
	}
}

func TestInputFrameJSON(t *testing.T) {
	var in InputFrame
	if err := json.Unmarshal([]byte(`{"u":true,"r":true,"f2":true}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := InputFrame{Up: true, Right: true, FireJJ: true}
	if in != want {
		t.Errorf("got %+v, want %+v", in, want)
	}
}

func TestEnvelopeDecode(t *testing.T) {
	var env InEnvelope
	raw := `{"t":"claim","d":{"seat":"both","password":"pw"}}`
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.T != MsgClaim {
		t.Fatalf("expected claim, got %s", env.T)
	}
	var msg ClaimMsg
	json.Unmarshal(env.D, &msg)
	if msg.Seat != SeatBoth || msg.Password != "pw" || msg.Token != "" {
		t.Errorf("bad claim %+v", msg)
	}
}

func TestSeatIndexes(t *testing.T) {
	tests := []struct {
		seat string
		want []int
		err  bool
	}{
		{"Brandon", []int{0}, false},
		{"JJ", []int{1}, false},
		{"both", []int{0, 1}, false},
		{"jj", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := seatIndexes(tt.seat)
		if (err != nil) != tt.err {
			t.Errorf("%q: unexpected error %v", tt.seat, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.seat, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: got %v, want %v", tt.seat, got, tt.want)
			}
		}
	}
}
