package canon

import "testing"

func TestParseNumberedList_Basic(t *testing.T) {
	tokens, rejects := ParseNumberedList("1. Organisation\n2. Person\n3. Place", 3)
	if len(rejects) != 0 {
		t.Fatalf("unexpected rejects: %v", rejects)
	}
	want := map[int]string{0: "Organisation", 1: "Person", 2: "Place"}
	for idx, token := range want {
		if tokens[idx] != token {
			t.Errorf("index %d: expected %q, got %q", idx, token, tokens[idx])
		}
	}
}

func TestParseNumberedList_IgnoresTrailingText(t *testing.T) {
	tokens, _ := ParseNumberedList("1. Organisation (a company or similar)", 1)
	if tokens[0] != "Organisation" {
		t.Errorf("expected Organisation, got %q", tokens[0])
	}
}

func TestParseNumberedList_RejectsMalformed(t *testing.T) {
	tokens, rejects := ParseNumberedList("Here are the answers:\n1. Person\n- Organisation", 2)
	if len(tokens) != 1 || tokens[0] != "Person" {
		t.Errorf("expected only index 0 mapped, got %v", tokens)
	}
	if len(rejects) != 2 {
		t.Errorf("expected 2 rejected lines, got %v", rejects)
	}
}

func TestParseNumberedList_RejectsOutOfRange(t *testing.T) {
	tokens, rejects := ParseNumberedList("0. Zero\n1. Person\n5. Ghost", 2)
	if len(tokens) != 1 {
		t.Errorf("expected 1 token, got %v", tokens)
	}
	if len(rejects) != 2 {
		t.Errorf("expected 2 rejects, got %v", rejects)
	}
}

func TestParseNumberedList_SkipsBlankLines(t *testing.T) {
	tokens, rejects := ParseNumberedList("\n1. Person\n\n2. Place\n", 2)
	if len(tokens) != 2 {
		t.Errorf("expected 2 tokens, got %v", tokens)
	}
	if len(rejects) != 0 {
		t.Errorf("blank lines must not count as rejects, got %v", rejects)
	}
}
