package game

import "testing"

func TestWrapEventSplitsAtWidth(t *testing.T) {
	ev := Info("The quick brown fox jumps over the lazy dog")
	got := WrapEvent(ev, 20).Text
	want := "The quick brown fox\njumps over the lazy\ndog"
	if got != want {
		t.Fatalf("WrapEvent() = %q, want %q", got, want)
	}
}

func TestWrapEventPreservesParagraphs(t *testing.T) {
	ev := Info("First line\n\nSecond line continues with extra words")
	got := WrapEvent(ev, 25).Text
	want := "First line\n\nSecond line continues\nwith extra words"
	if got != want {
		t.Fatalf("WrapEvent() paragraphs = %q, want %q", got, want)
	}
}

func TestWrapEventHandlesLongWord(t *testing.T) {
	ev := Info("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	got := WrapEvent(ev, 20).Text
	want := "ABCDEFGHIJKLMNOPQRST\nUVWXYZ"
	if got != want {
		t.Fatalf("WrapEvent() long word = %q, want %q", got, want)
	}
}

func TestWrapEventIndentsSpeechContinuations(t *testing.T) {
	ev := Event{Kind: EventSay, Text: "Ada says: a very long whispered message"}
	got := WrapEvent(ev, 20).Text
	want := "Ada says: a very\n  long whispered\n  message"
	if got != want {
		t.Fatalf("WrapEvent() speech = %q, want %q", got, want)
	}
}

func TestWrapEventLeavesRoomTextFlush(t *testing.T) {
	ev := Event{Kind: EventRoom, Text: "An open plaza under drifting cinders and ash"}
	got := WrapEvent(ev, 20).Text
	want := "An open plaza under\ndrifting cinders and\nash"
	if got != want {
		t.Fatalf("WrapEvent() room = %q, want %q", got, want)
	}
}
