package bloomtree

import (
	"strings"
	"time"
)

// TextRevealer receives the letter when the show reaches its reveal stage.
// Reveal must not block.
type TextRevealer interface {
	Reveal(text string, rate time.Duration)
}

// Typewriter reveals text one rune per rate, with a blinking underscore
// cursor while it types.
type Typewriter struct {
	text     []rune
	rate     time.Duration
	progress int
	acc      time.Duration
	active   bool
}

var _ TextRevealer = (*Typewriter)(nil)

// Reveal starts typing text from the beginning.
func (t *Typewriter) Reveal(text string, rate time.Duration) {
	t.text = []rune(text)
	t.rate = rate
	t.progress = 0
	t.acc = 0
	t.active = true
}

// Active reports whether Reveal has been called.
func (t *Typewriter) Active() bool { return t.active }

// Done reports whether the whole text is visible.
func (t *Typewriter) Done() bool { return t.active && t.progress >= len(t.text) }

// Advance types one rune for every full rate elapsed.
func (t *Typewriter) Advance(dt time.Duration) {
	if !t.active || t.Done() || t.rate <= 0 {
		return
	}
	t.acc += dt
	for t.acc >= t.rate && t.progress < len(t.text) {
		t.acc -= t.rate
		t.progress++
	}
}

// Visible returns the typed prefix, with a cursor on odd progress.
func (t *Typewriter) Visible() string {
	if !t.active {
		return ""
	}
	s := string(t.text[:t.progress])
	if !t.Done() && t.progress&1 == 1 {
		s += "_"
	}
	return s
}

// WrapLines splits text into lines no wider than width according to
// measure, breaking at spaces. Explicit newlines are kept; a single word
// wider than width gets a line of its own.
func WrapLines(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if measure(line+" "+w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
