package diff

import "testing"

func TestSeenTracker_MarkAndQuery(t *testing.T) {
	tracker := NewSeenTracker()
	id := NewHunkID("a.txt", 1, 1, []Line{{Kind: LineAdded, Content: "x\n"}})

	if tracker.IsSeen(id) {
		t.Fatalf("expected fresh tracker to report unseen")
	}
	tracker.MarkSeen(id)
	if !tracker.IsSeen(id) {
		t.Fatalf("expected marked hunk to report seen")
	}
}

func TestSeenTracker_RemoveFileHunksScopedToPath(t *testing.T) {
	tracker := NewSeenTracker()
	a := NewHunkID("a.txt", 1, 1, []Line{{Kind: LineAdded, Content: "x\n"}})
	b := NewHunkID("b.txt", 1, 1, []Line{{Kind: LineAdded, Content: "x\n"}})
	tracker.MarkSeen(a)
	tracker.MarkSeen(b)

	tracker.RemoveFileHunks("a.txt")

	if tracker.IsSeen(a) {
		t.Fatalf("expected a.txt hunks to be forgotten")
	}
	if !tracker.IsSeen(b) {
		t.Fatalf("expected other paths to keep their entries")
	}
}

func TestSeenTracker_ClearDropsEverything(t *testing.T) {
	tracker := NewSeenTracker()
	a := NewHunkID("a.txt", 1, 1, []Line{{Kind: LineAdded, Content: "x\n"}})
	tracker.MarkSeen(a)

	tracker.Clear()

	if tracker.IsSeen(a) {
		t.Fatalf("expected cleared tracker to report unseen")
	}
}
