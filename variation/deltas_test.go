// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "testing"

func packDeltasAllBytes(vals []int16) []byte {
	out := []byte{byte(len(vals) - 1)}
	for _, v := range vals {
		out = append(out, byte(int8(v)))
	}
	return out
}

func TestDecodeTupleAllPoints(t *testing.T) {
	xs := packDeltasAllBytes([]int16{10, -5, 0})
	ys := packDeltasAllBytes([]int16{1, 2, 3})
	data := append(append([]byte{}, xs...), ys...)

	got, err := DecodeTuple(data, 3, false, nil)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	want := []delta{{10, 1}, {-5, 2}, {0, 3}}
	for i, d := range want {
		if got.Deltas[i] != d {
			t.Errorf("Deltas[%d] = %+v, want %+v", i, got.Deltas[i], d)
		}
		if !got.Touched[i] {
			t.Errorf("Touched[%d] = false, want true (applies-to-all tuple)", i)
		}
	}
}

func TestDecodeTuplePrivatePoints(t *testing.T) {
	// Tuple touches only point 1 of 3.
	pn := []byte{1, 0x80, 0x00, 0x01} // count=1, 16-bit run of 1, delta=1
	xs := packDeltasAllBytes([]int16{7})
	ys := packDeltasAllBytes([]int16{-3})
	data := append(append(append([]byte{}, pn...), xs...), ys...)

	got, err := DecodeTuple(data, 3, true, nil)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	if !got.Touched[1] || got.Touched[0] || got.Touched[2] {
		t.Fatalf("Touched = %v, want only index 1 set", got.Touched)
	}
	if got.Deltas[1] != (delta{7, -3}) {
		t.Errorf("Deltas[1] = %+v, want {7 -3}", got.Deltas[1])
	}
}

func TestDecodeTupleSharedPoints(t *testing.T) {
	shared := []uint16{0, 2}
	xs := packDeltasAllBytes([]int16{4, 8})
	ys := packDeltasAllBytes([]int16{-1, -2})
	data := append(append([]byte{}, xs...), ys...)

	got, err := DecodeTuple(data, 3, false, shared)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	if got.Touched[1] {
		t.Fatalf("point 1 not in shared set, should be untouched")
	}
	if got.Deltas[0] != (delta{4, -1}) || got.Deltas[2] != (delta{8, -2}) {
		t.Fatalf("unexpected deltas: %+v", got.Deltas)
	}
}

func TestDecodeTupleZeroRun(t *testing.T) {
	// All-zero flag (bit 0x80) covering all 4 points, no payload bytes.
	data := []byte{0x80 | 3, 0x80 | 3}
	got, err := DecodeTuple(data, 4, false, nil)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	for i, d := range got.Deltas {
		if d != (delta{0, 0}) {
			t.Errorf("Deltas[%d] = %+v, want zero", i, d)
		}
	}
}

func TestDecodeTupleTruncatedIsError(t *testing.T) {
	_, err := DecodeTuple([]byte{}, 3, false, nil)
	if err == nil {
		t.Fatal("expected error for empty data")
	}
	var verr *Error
	if !asError(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if verr.Kind != KindMalformedDeltas {
		t.Fatalf("Kind = %v, want KindMalformedDeltas", verr.Kind)
	}
}

// asError is a tiny errors.As shim kept local so this file has no extra
// import beyond testing.
func asError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}
