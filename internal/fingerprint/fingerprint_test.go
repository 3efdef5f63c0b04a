package fingerprint

import "testing"

func digest(t *testing.T, chunks ...string) Paragraph {
	t.Helper()
	h := NewHasher()
	for _, c := range chunks {
		h.Update([]byte(c))
	}
	return h.FinishParagraph()
}

func TestWhitespaceIgnored(t *testing.T) {
	a := digest(t, "Hello, world")
	b := digest(t, "Hello,  world\n")
	if a != b {
		t.Fatalf("expected whitespace-insensitive equality, got %x != %x", a, b)
	}
}

func TestChunkingDoesNotMatter(t *testing.T) {
	a := digest(t, "Hello, world")
	b := digest(t, "Hello,", " world")
	if a != b {
		t.Fatalf("expected chunk-independent equality, got %x != %x", a, b)
	}
}

func TestDifferentTextDiffers(t *testing.T) {
	a := digest(t, "Hello, world")
	b := digest(t, "Goodbye, world")
	if a == b {
		t.Fatal("expected different text to produce different digests")
	}
}

func TestFinishResetsState(t *testing.T) {
	h := NewHasher()
	h.Update([]byte("first paragraph"))
	first := h.FinishParagraph()

	h.Update([]byte("second paragraph"))
	second := h.FinishParagraph()

	if first == second {
		t.Fatal("expected distinct paragraphs to produce distinct digests")
	}

	again := digest(t, "second paragraph")
	if second != again {
		t.Fatalf("FinishParagraph did not reset state: %x != %x", second, again)
	}
}

func TestDebugRetainsText(t *testing.T) {
	d := NewDebug()
	d.Update([]byte("Hello, "))
	d.Update([]byte("world\n"))
	digestViaDebug := d.FinishParagraph()

	if got, want := d.Text(), "Hello,world"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}

	plain := digest(t, "Hello, world\n")
	if digestViaDebug != plain {
		t.Fatal("Debug digest should match Hasher digest for identical input")
	}
}

func TestNoopIsSafe(t *testing.T) {
	var n Noop
	n.Update([]byte("anything"))
	if got := n.FinishParagraph(); got != (Paragraph{}) {
		t.Fatalf("expected zero paragraph from Noop, got %x", got)
	}
}
