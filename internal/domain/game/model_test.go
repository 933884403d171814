package game

import "testing"

func TestPatchApply(t *testing.T) {
	unlock := false
	lock := true

	tests := []struct {
		name       string
		game       Game
		patch      Patch
		wantLocked bool
		wantManual bool
	}{
		{name: "unlock open game", game: Game{IsLocked: true, ManuallyLocked: true}, patch: Patch{IsLocked: &unlock, ManuallyLocked: &unlock}},
		{name: "manual lock", game: Game{}, patch: Patch{IsLocked: &lock, ManuallyLocked: &lock}, wantLocked: true, wantManual: true},
		{name: "finished game stays locked", game: Game{IsFinished: true, IsLocked: true, ManuallyLocked: true}, patch: Patch{IsLocked: &unlock, ManuallyLocked: &unlock}, wantLocked: true},
		{name: "nil fields untouched", game: Game{IsLocked: true, ManuallyLocked: true}, patch: Patch{}, wantLocked: true, wantManual: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Apply(tt.game)
			if got.IsLocked != tt.wantLocked || got.ManuallyLocked != tt.wantManual {
				t.Fatalf("got IsLocked=%v ManuallyLocked=%v, want %v/%v", got.IsLocked, got.ManuallyLocked, tt.wantLocked, tt.wantManual)
			}
		})
	}
}
