package rope

// TextSummary holds aggregated metrics for a span of text.
// This is the "summary" type for the tree, implementing monoid operations:
// combining the summaries of two spans yields the summary of their
// concatenation, which lets internal nodes cache per-child summaries for
// efficient seeking by char offset or line number.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the count of Unicode scalar values.
	Chars int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries (monoid operation).
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero returns true if this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s)}
	for _, r := range s {
		sum.Chars++
		if r == '\n' {
			sum.Lines++
		}
	}
	return sum
}

// CountLines returns the number of newlines in a string.
func CountLines(s string) int {
	count := 0
	for _, r := range s {
		if r == '\n' {
			count++
		}
	}
	return count
}

// charToByte returns the byte offset of the char-th rune in s.
// A char count at or past the end of s maps to len(s).
func charToByte(s string, char int) int {
	if char <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == char {
			return i
		}
		n++
	}
	return len(s)
}
