package hashutil

import "testing"

func TestHashBytesDeterministic(t *testing.T) {
	b := []byte("package main\n")
	if HashBytes(b) != HashBytes(b) {
		t.Fatal("HashBytes is not deterministic")
	}
}

func TestHashBytesDiffers(t *testing.T) {
	a := HashBytes([]byte("a"))
	b := HashBytes([]byte("b"))
	if a == b {
		t.Fatalf("expected distinct hashes, got %s for both", a)
	}
}

func TestHashBytesLength(t *testing.T) {
	if got := len(HashBytes([]byte("x"))); got != Prefix {
		t.Fatalf("expected length %d, got %d", Prefix, got)
	}
}

func TestHashProjectOrderInvariance(t *testing.T) {
	a := []FileEntry{{Path: "b.ts", Hash: "2"}, {Path: "a.ts", Hash: "1"}}
	b := []FileEntry{{Path: "a.ts", Hash: "1"}, {Path: "b.ts", Hash: "2"}}

	if HashProject(a) != HashProject(b) {
		t.Fatal("HashProject is not order-invariant")
	}
}

func TestHashProjectEmpty(t *testing.T) {
	got := HashProject(nil)
	want := HashBytes([]byte(""))
	if got != want {
		t.Fatalf("empty project hash = %s, want %s", got, want)
	}
}

func TestHashProjectMapMatchesSlice(t *testing.T) {
	m := map[string]string{"a.ts": "1", "b.ts": "2"}
	s := []FileEntry{{Path: "a.ts", Hash: "1"}, {Path: "b.ts", Hash: "2"}}

	if HashProjectMap(m) != HashProject(s) {
		t.Fatal("HashProjectMap disagrees with HashProject over the same entries")
	}
}
