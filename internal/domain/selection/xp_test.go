package selection

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name                             string
		caps, bonuses, penalties, streak int
		want                             int
	}{
		{name: "no activity", want: 0},
		{name: "caps only", caps: 20, want: 20},
		{name: "bonus and streak", caps: 20, bonuses: 1, streak: 3, want: 28},
		{name: "penalty", caps: 20, penalties: 2, want: 16},
		{name: "rounds half away from zero", caps: 5, bonuses: 1, want: 6},
		{name: "rounds down below half", caps: 3, bonuses: 1, want: 3},
		{name: "negative modifier", caps: 10, penalties: 15, want: -5},
		{name: "negative half rounds away from zero", caps: 5, penalties: 11, want: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.caps, tc.bonuses, tc.penalties, tc.streak)
			if got != tc.want {
				t.Fatalf("unexpected score: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestScore_Monotonic(t *testing.T) {
	for caps := 0; caps <= 30; caps++ {
		for bonuses := 0; bonuses <= 3; bonuses++ {
			for penalties := 0; penalties <= 3; penalties++ {
				for streak := 0; streak <= 5; streak++ {
					base := Score(caps, bonuses, penalties, streak)
					if got := Score(caps+1, bonuses, penalties, streak); got < base {
						t.Fatalf("more caps lowered score: caps=%d b=%d p=%d s=%d", caps, bonuses, penalties, streak)
					}
					if got := Score(caps, bonuses+1, penalties, streak); got < base {
						t.Fatalf("more bonuses lowered score: caps=%d b=%d p=%d s=%d", caps, bonuses, penalties, streak)
					}
					if got := Score(caps, bonuses, penalties, streak+1); got < base {
						t.Fatalf("longer streak lowered score: caps=%d b=%d p=%d s=%d", caps, bonuses, penalties, streak)
					}
					if got := Score(caps, bonuses, penalties+1, streak); got > base {
						t.Fatalf("more penalties raised score: caps=%d b=%d p=%d s=%d", caps, bonuses, penalties, streak)
					}
				}
			}
		}
	}
}
