package handlers

import (
	"regexp"
	"testing"
)

func TestSubstringMatchTreatsMetacharactersAsLiterals(t *testing.T) {
	filter := substringMatch("JW-00123(")

	if filter["$options"] != "i" {
		t.Fatalf("expected case-insensitive option, got %v", filter["$options"])
	}

	pattern, ok := filter["$regex"].(string)
	if !ok {
		t.Fatalf("expected a string pattern, got %v", filter["$regex"])
	}
	re := regexp.MustCompile("(?i)" + pattern)
	if !re.MatchString("jw-00123(") {
		t.Errorf("pattern %q should match the literal term", pattern)
	}

	dotted := substringMatch("a.c")["$regex"].(string)
	if regexp.MustCompile(dotted).MatchString("abc") {
		t.Errorf("pattern %q must not treat '.' as a wildcard", dotted)
	}
}
