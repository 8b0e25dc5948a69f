package agent

import "testing"

func TestParseActionRoundTrip(t *testing.T) {
	for a := ActionSeekFood; a <= ActionMoveObject; a++ {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Fatalf("ParseAction(%q)=%v,%v want %v", a.String(), got, ok, a)
		}
	}
	if _, ok := ParseAction("levitate"); ok {
		t.Fatal("unknown name should not parse")
	}
}

func TestIsMove(t *testing.T) {
	moves := map[Action]bool{
		ActionMoveUp:     true,
		ActionMoveDown:   true,
		ActionMoveLeft:   true,
		ActionMoveRight:  true,
		ActionSeekFood:   false,
		ActionExplore:    false,
		ActionMoveObject: false,
	}
	for a, want := range moves {
		if a.IsMove() != want {
			t.Fatalf("%s.IsMove()=%v want %v", a, a.IsMove(), want)
		}
	}
}
