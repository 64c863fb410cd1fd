package models

import "testing"

func TestReadingState(t *testing.T) {
	for _, s := range ReadingStates() {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
		if s.Label() == "" {
			t.Errorf("%q has no label", s)
		}
	}
	if ReadingState("xx").Valid() {
		t.Error("unknown state reported valid")
	}
	if Reading.Label() != "reading" {
		t.Errorf("got %q", Reading.Label())
	}
}

func TestBookString(t *testing.T) {
	b := Book{Title: "Dune", Author: "Frank Herbert"}
	if got := b.String(); got != "Dune by Frank Herbert" {
		t.Errorf("got %q", got)
	}
}
