package cards

import (
	"testing"
)

func mustParse(t *testing.T, s string) []Card {
	t.Helper()
	cards, err := ParseCards(s)
	if err != nil {
		t.Fatal(err)
	}
	return cards
}

func TestNewSetFromCards(t *testing.T) {
	testCards := mustParse(t, "AsKd7c2h")
	set := NewSetFromCards(testCards)
	for _, card := range testCards {
		if !set.Contains(card) {
			t.Errorf("card set %v should contain %v", set, card)
		}
	}

	if set.Contains(testCards[0] - 1) {
		t.Errorf("card set %v should not contain %v", set, testCards[0]-1)
	}
}

func TestLen(t *testing.T) {
	set := NewSetFromCards(mustParse(t, "AsKd7c2hAs"))
	if set.Len() != 4 {
		t.Errorf("card set has len %d, expected %d", set.Len(), 4)
	}
}

func TestAsSlice(t *testing.T) {
	testCards := mustParse(t, "AsKd7c2h")
	set := NewSetFromCards(testCards)
	if !setEqual(set.AsSlice(), testCards) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}

	slice := set.AsSlice()
	for i := 1; i < len(slice); i++ {
		if slice[i-1] >= slice[i] {
			t.Errorf("slice should be in increasing order: %v", slice)
		}
	}
}

func TestAdd(t *testing.T) {
	set := NewSet()
	ks := mustParse(t, "Ks")[0]
	set.Add(ks)
	if !setEqual(set.AsSlice(), []Card{ks}) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}

	set.Add(ks)
	if set.Len() != 1 {
		t.Errorf("adding a card twice should be a no-op, got %v", set)
	}
}

func TestRemove(t *testing.T) {
	testCards := mustParse(t, "AsKd7c")
	set := NewSetFromCards(testCards)
	set.Remove(testCards[1])
	if set.Contains(testCards[1]) {
		t.Error("failed to remove card")
	}

	expected := []Card{testCards[0], testCards[2]}
	if !setEqual(set.AsSlice(), expected) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}
}

func TestRemove_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when removing non-existent card")
		}
	}()

	set := NewSetFromCards(mustParse(t, "As"))
	set.Remove(mustParse(t, "Ah")[0])
}

func TestAddAll(t *testing.T) {
	set1 := NewSetFromCards(mustParse(t, "As"))
	set2 := NewSetFromCards(mustParse(t, "KdQh"))
	set1.AddAll(set2)
	if !setEqual(set1.AsSlice(), mustParse(t, "AsKdQh")) {
		t.Errorf("got unexpected slice of cards: %v", set1)
	}
}

func TestRemoveAll(t *testing.T) {
	set1 := NewSetFromCards(mustParse(t, "AsKdQh"))
	set2 := NewSetFromCards(mustParse(t, "AsQh"))
	set1.RemoveAll(set2)
	if !setEqual(set1.AsSlice(), mustParse(t, "Kd")) {
		t.Errorf("got unexpected slice of cards: %v", set1)
	}
}

func TestRemoveAll_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when removing non-existent card")
		}
	}()

	set := NewSetFromCards(mustParse(t, "As"))
	set.RemoveAll(NewSetFromCards(mustParse(t, "AsKd")))
}

func TestIntersects(t *testing.T) {
	board := NewSetFromCards(mustParse(t, "AsKd7c"))
	if !board.Intersects(NewSetFromCards(mustParse(t, "Kd2c"))) {
		t.Error("sets sharing Kd should intersect")
	}
	if board.Intersects(NewSetFromCards(mustParse(t, "Kh2c"))) {
		t.Error("disjoint sets should not intersect")
	}
}

func TestParseSet_Duplicate(t *testing.T) {
	if _, err := ParseSet("AsAs"); err == nil {
		t.Error("expected error for duplicate cards")
	}
}

func TestString(t *testing.T) {
	set, err := ParseSet("Kd2cAs")
	if err != nil {
		t.Fatal(err)
	}

	if set.String() != "2cKdAs" {
		t.Errorf("got unexpected string %q", set.String())
	}
}

func setEqual(s1, s2 []Card) bool {
	if len(s1) != len(s2) {
		return false
	}

	m1 := make(map[Card]int, len(s1))
	for _, card := range s1 {
		m1[card]++
	}

	for _, card := range s2 {
		m1[card]--
	}

	for _, count := range m1 {
		if count != 0 {
			return false
		}
	}

	return true
}
