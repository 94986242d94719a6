package enrichseq

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"strings"
	"testing"
)

func TestMaybeDecompressGzip(t *testing.T) {
	const payload = "gene\tlog2fc\nTP53\t2.5\n"

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := MaybeDecompress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("got %q, expected %q", got, payload)
	}
}

func TestMaybeDecompressPassthrough(t *testing.T) {
	const payload = "gene,log2fc\nTP53,2.5\n"

	r, err := MaybeDecompress(strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("got %q, expected %q", got, payload)
	}
}

func TestMaybeDecompressShortInput(t *testing.T) {
	// Inputs shorter than the longest signature must still pass through.
	r, err := MaybeDecompress(strings.NewReader("ab"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ab" {
		t.Fatalf("got %q, expected ab", got)
	}
}

func TestDetermineDelimiter(t *testing.T) {
	for _, v := range []struct {
		in       string
		expected rune
	}{
		{"gene,log2fc\nTP53,2.5\nBRCA1,-1.0\nEGFR,0.5\n", ','},
		{"gene\tlog2fc\nTP53\t2.5\nBRCA1\t-1.0\nEGFR\t0.5\n", '\t'},
		{"gene;log2fc\nTP53;2.5\nBRCA1;-1.0\nEGFR;0.5\n", ';'},
	} {
		if got := DetermineDelimiter(strings.NewReader(v.in)); got != v.expected {
			t.Fatalf("input %q: got %q, expected %q", v.in, got, v.expected)
		}
	}
}
