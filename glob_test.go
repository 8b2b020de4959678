package redkit

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, key string
		want         bool
	}{
		{"*", "anything", true},
		{"user:*", "user:123", true},
		{"user:*", "session:123", false},
		{"h?llo", "hello", true},
		{"h?llo", "hallo", true},
		{"h?llo", "heello", false},
		{"[abc]atch", "aatch", true},
		{"[abc]atch", "datch", false},
	}

	for _, c := range cases {
		if got := matchGlob(c.pattern, c.key); got != c.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", c.pattern, c.key, got, c.want)
		}
	}
}

func TestMatchGlobInvalidPatternMatchesNothing(t *testing.T) {
	if matchGlob("[", "anything") {
		t.Fatal("an unparsable pattern should never match")
	}
}
