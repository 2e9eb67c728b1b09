package encoding

import "testing"

func TestToggleMarkInvolution(t *testing.T) {
	h := MTBDD(0x1234)
	if h.ToggleMark().ToggleMark() != h {
		t.Fatalf("toggle-toggle should be identity")
	}
}

func TestTransferMarkXORsComplementBit(t *testing.T) {
	src := MTBDD(Complement)
	dst := MTBDD(7)
	got := TransferMark(src, dst)
	if !got.HasMark() {
		t.Fatalf("expected complement bit transferred")
	}
	if got.Index() != dst.Index() {
		t.Fatalf("transfer must not touch the index bits")
	}
}

func TestSentinels(t *testing.T) {
	if False != 0 {
		t.Fatalf("False must be zero")
	}
	if True != MTBDD(Complement) {
		t.Fatalf("True must be the complement of False")
	}
	if False.HasMark() {
		t.Fatalf("False must not carry the complement bit")
	}
	if !True.HasMark() {
		t.Fatalf("True must carry the complement bit")
	}
}

func TestPackUnpackInternal(t *testing.T) {
	a, b := PackInternal(17, 3, 9, true)
	idx, comp := UnpackInternalHigh(a)
	if idx != 9 || !comp {
		t.Fatalf("high round-trip failed: idx=%d comp=%v", idx, comp)
	}
	if UnpackInternalLow(b) != 3 {
		t.Fatalf("low round-trip failed")
	}
	if UnpackVar(b) != 17 {
		t.Fatalf("var round-trip failed")
	}
	if IsLeafContent(a) {
		t.Fatalf("internal content must not be tagged as a leaf")
	}
}

func TestPackUnpackLeaf(t *testing.T) {
	a, b := PackLeaf(TypeDouble, 0xdeadbeef)
	if !IsLeafContent(a) {
		t.Fatalf("leaf content must be tagged as a leaf")
	}
	typ, val := UnpackLeaf(a, b)
	if typ != TypeDouble || val != 0xdeadbeef {
		t.Fatalf("leaf round-trip failed: type=%d value=%#x", typ, val)
	}
}
