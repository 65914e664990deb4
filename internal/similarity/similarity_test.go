package similarity

import "testing"

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Hello, World!!", "hello world"},
		{"  MANY   spaces \t here ", "many spaces here"},
		{"already normal", "already normal"},
		{"***", ""},
		{"", ""},
		{"Cats & Dogs (2024)", "cats dogs 2024"},
	}
	for _, c := range cases {
		if got := NormalizeTitle(c.in); got != c.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Hello, World!!", "a b c", "", "Ünïcödé title?!", "x"}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		if twice := NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestTitleSimilarityBasic(t *testing.T) {
	t.Parallel()

	if got := TitleSimilarity("hello world", "hello world"); got != 1.0 {
		t.Errorf("identical titles: got %v, want 1.0", got)
	}
	if got := TitleSimilarity("hello world", "different"); got >= 0.6 {
		t.Errorf("disjoint titles: got %v, want < 0.6", got)
	}
	if got := TitleSimilarity("", "anything"); got != 0.0 {
		t.Errorf("empty left: got %v, want 0.0", got)
	}
	if got := TitleSimilarity("anything", "!!!"); got != 0.0 {
		t.Errorf("empty-normalized right: got %v, want 0.0", got)
	}
}

func TestTitleSimilarityPunctuationOnlyDifference(t *testing.T) {
	t.Parallel()

	s := TitleSimilarity("This is a test title", "This is a test title!!")
	if s <= 0.85 {
		t.Errorf("got %v, want > 0.85", s)
	}
}

func TestTitleSimilarityDeterministic(t *testing.T) {
	t.Parallel()

	first := TitleSimilarity("some moderately long title here", "another moderately long title there")
	for i := 0; i < 10; i++ {
		if got := TitleSimilarity("some moderately long title here", "another moderately long title there"); got != first {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"http://example.com/x#frag", "https://example.com/x"},
		{"  https://example.com/y  ", "https://example.com/y"},
		{"https://example.com/z?utm=1", "https://example.com/z?utm=1"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeURL(c.in); got != c.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	r := Compare("a", "http://example.com/x#frag", "b", "https://example.com/x")
	if !r.SameURL {
		t.Errorf("expected SameURL for fragment/scheme-only difference")
	}

	// query strings are deliberately not stripped
	r = Compare("a", "https://example.com/x?utm=1", "b", "https://example.com/x")
	if r.SameURL {
		t.Errorf("expected SameURL=false when queries differ")
	}

	r = Compare("a", "", "b", "https://example.com/x")
	if r.SameURL {
		t.Errorf("expected SameURL=false when one URL is empty")
	}

	r = Compare("same title", "", "same title", "")
	if r.TitleScore != 1.0 {
		t.Errorf("TitleScore = %v, want 1.0", r.TitleScore)
	}
}
