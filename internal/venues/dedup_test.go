package venues

import "testing"

func TestDeduplicate_SameSourceID(t *testing.T) {
	first := NewCandidate(SourceGoogle, "abc")
	first.Name = "Levain Bakery"
	first.Address = "167 W 74th St"
	second := NewCandidate(SourceGoogle, "abc")
	second.Name = "Levain Bakery Uptown"
	second.Address = "2167 Frederick Douglass Blvd"

	got := Deduplicate([]Candidate{first, second})
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Name != "Levain Bakery" {
		t.Fatalf("expected first-seen candidate to win, got %q", got[0].Name)
	}
}

func TestDeduplicate_SameIDAcrossSourcesKept(t *testing.T) {
	google := NewCandidate(SourceGoogle, "42")
	google.Name = "Milk Bar"
	google.Address = "251 E 13th St"
	yelp := NewCandidate(SourceYelp, "42")
	yelp.Name = "Insomnia Cookies"
	yelp.Address = "116 Macdougal St"

	got := Deduplicate([]Candidate{google, yelp})
	if len(got) != 2 {
		t.Fatalf("provider ids are namespaced by source; expected 2 candidates, got %d", len(got))
	}
}

func TestDeduplicate_NameAddressCaseInsensitive(t *testing.T) {
	google := NewCandidate(SourceGoogle, "g-1")
	google.Name = "Milk Bar"
	google.Address = "251 E 13th St"
	yelp := NewCandidate(SourceYelp, "y-1")
	yelp.Name = "MILK BAR"
	yelp.Address = "251 e 13th st"

	got := Deduplicate([]Candidate{google, yelp})
	if len(got) != 1 {
		t.Fatalf("expected name|address dedup across sources, got %d candidates", len(got))
	}
	if got[0].Source != SourceGoogle {
		t.Fatalf("expected first-seen (google) candidate, got %s", got[0].Source)
	}
}

func TestDeduplicate_DistinctKept(t *testing.T) {
	a := NewCandidate(SourceGoogle, "g-1")
	a.Name = "Milk Bar"
	a.Address = "251 E 13th St"
	b := NewCandidate(SourceGoogle, "g-2")
	b.Name = "Insomnia Cookies"
	b.Address = "116 Macdougal St"

	got := Deduplicate([]Candidate{a, b})
	if len(got) != 2 {
		t.Fatalf("expected both distinct candidates kept, got %d", len(got))
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	candidates := []Candidate{}
	for _, name := range []string{"Milk Bar", "Milk Bar", "Insomnia Cookies", "Levain Bakery"} {
		c := NewCandidate(SourceYelp, "id-"+name)
		c.Name = name
		c.Address = "somewhere"
		candidates = append(candidates, c)
	}

	once := Deduplicate(candidates)
	twice := Deduplicate(once)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent dedup, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].SourceID != twice[i].SourceID {
			t.Fatalf("expected stable order, mismatch at %d", i)
		}
	}
}

func TestDeduplicate_EmptyIdentityNotCollapsed(t *testing.T) {
	a := NewCandidate(SourceFacebook, "")
	b := NewCandidate(SourceFacebook, "")

	got := Deduplicate([]Candidate{a, b})
	if len(got) != 2 {
		t.Fatalf("candidates with no identity keys must not collapse, got %d", len(got))
	}
}

func TestPriceRangeFromLevel(t *testing.T) {
	cases := map[int]string{0: "", 1: "$", 2: "$$", 4: "$$$$", 7: "$$$$"}
	for level, want := range cases {
		if got := PriceRangeFromLevel(level); got != want {
			t.Fatalf("level %d: expected %q, got %q", level, want, got)
		}
	}
}
