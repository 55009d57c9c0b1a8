package game

import (
	"strings"
	"unicode/utf8"
)

// minWrapWidth floors the wrap column so tiny negotiated windows don't shred
// output into confetti.
const minWrapWidth = 20

// speechIndent hangs the continuation lines of wrapped dialogue so a long
// utterance reads as one speaker's line.
const speechIndent = "  "

func wrapIndent(kind EventKind) string {
	switch kind {
	case EventSay, EventChat:
		return speechIndent
	}
	return ""
}

// WrapEvent soft-wraps an event's text to the terminal width, applying the
// kind's hanging indent to continuation lines. Paragraph breaks are kept.
func WrapEvent(ev Event, width int) Event {
	ev.Text = wrapText(ev.Text, width, wrapIndent(ev.Kind))
	return ev
}

func wrapText(text string, width int, indent string) string {
	if width <= 0 {
		return text
	}
	if width < minWrapWidth {
		width = minWrapWidth
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width, indent)...)
	}
	return strings.Join(lines, "\n")
}

func wrapParagraph(paragraph string, width int, indent string) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	push := func(word string) {
		switch {
		case word == "":
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) > width:
			lines = append(lines, current)
			current = indent + word
		default:
			current += " " + word
		}
	}
	for _, word := range words {
		runes := []rune(word)
		for len(runes) > width {
			// A run longer than the whole line is split hard.
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		push(string(runes))
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
