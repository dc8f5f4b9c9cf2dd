package convert

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/markup"
)

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	titleWord      = regexp.MustCompile(`\w\S*`)
	sentenceStart  = regexp.MustCompile(`(^\s*\w|[.!?]\s*\w)`)
)

// TextStats are the counts reported by the word counter.
type TextStats struct {
	Words              int
	Characters         int
	CharactersNoSpaces int
	Sentences          int
	Paragraphs         int
	Lines              int
}

// Analyze counts words, characters, sentences, paragraphs and lines.
func Analyze(text string) TextStats {
	st := markup.Count(text)
	noSpaces := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			noSpaces++
		}
	}
	return TextStats{
		Words:              st.Words,
		Characters:         st.Characters,
		CharactersNoSpaces: noSpaces,
		Sentences:          countNonBlank(sentenceSplit.Split(text, -1)),
		Paragraphs:         countNonBlank(paragraphSplit.Split(text, -1)),
		Lines:              strings.Count(text, "\n") + 1,
	}
}

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// Minutes at wpm words per minute, rounded up.
func (s TextStats) Minutes(wpm int) int {
	return int(math.Ceil(float64(s.Words) / float64(wpm)))
}

func ratio(a, b int) string {
	if b == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(a)/float64(b))
}

func (c *Converter) countWords(in Input) (*smartdocs.Artifact, error) {
	text, err := readText(WordCounter, in)
	if err != nil {
		return nil, err
	}
	st := Analyze(text)
	n := func(v int) string { return humanize.Comma(int64(v)) }
	fileType := in.MimeType
	if fileType == "" {
		fileType = in.detect().String()
	}

	var b strings.Builder
	b.WriteString("Word Count Analysis Report\nGenerated by SmartDocsHub.com\n\n")
	fmt.Fprintf(&b, "File: %s\nAnalysis Date: %s\n\n", in.Name, c.now().Format("January 2, 2006 15:04 UTC"))

	b.WriteString("=== BASIC STATISTICS ===\n")
	fmt.Fprintf(&b, "Words: %s\n", n(st.Words))
	fmt.Fprintf(&b, "Characters (with spaces): %s\n", n(st.Characters))
	fmt.Fprintf(&b, "Characters (without spaces): %s\n", n(st.CharactersNoSpaces))
	fmt.Fprintf(&b, "Sentences: %s\n", n(st.Sentences))
	fmt.Fprintf(&b, "Paragraphs: %s\n", n(st.Paragraphs))
	fmt.Fprintf(&b, "Lines: %s\n\n", n(st.Lines))

	b.WriteString("=== READING TIME ESTIMATES ===\n")
	fmt.Fprintf(&b, "Average reading speed (200 WPM): %d minutes\n", st.Minutes(200))
	fmt.Fprintf(&b, "Fast reading speed (300 WPM): %d minutes\n", st.Minutes(300))
	fmt.Fprintf(&b, "Slow reading speed (150 WPM): %d minutes\n\n", st.Minutes(150))

	b.WriteString("=== SPEAKING TIME ESTIMATES ===\n")
	fmt.Fprintf(&b, "Average speaking speed (150 WPM): %d minutes\n", st.Minutes(150))
	fmt.Fprintf(&b, "Fast speaking speed (200 WPM): %d minutes\n", st.Minutes(200))
	fmt.Fprintf(&b, "Slow speaking speed (120 WPM): %d minutes\n\n", st.Minutes(120))

	b.WriteString("=== ADDITIONAL METRICS ===\n")
	fmt.Fprintf(&b, "Average words per sentence: %s\n", ratio(st.Words, st.Sentences))
	fmt.Fprintf(&b, "Average sentences per paragraph: %s\n", ratio(st.Sentences, st.Paragraphs))
	fmt.Fprintf(&b, "Average characters per word: %s\n\n", ratio(st.CharactersNoSpaces, st.Words))

	b.WriteString("=== FILE INFORMATION ===\n")
	fmt.Fprintf(&b, "File size: %s\n", humanize.Bytes(uint64(len(in.Data))))
	fmt.Fprintf(&b, "File type: %s\n\n", fileType)
	b.WriteString("SmartDocsHub.com - Your Premium Document Platform\n")

	return c.artifact(in.base()+"_word_count_analysis.txt", smartdocs.FormatText, []byte(b.String())), nil
}

// TitleCase capitalises the first letter of every word and lowercases the rest.
func TitleCase(s string) string {
	return titleWord.ReplaceAllStringFunc(s, func(w string) string {
		r, n := utf8.DecodeRuneInString(w)
		return string(unicode.ToUpper(r)) + strings.ToLower(w[n:])
	})
}

// SentenceCase lowercases s and capitalises the first letter of each sentence.
func SentenceCase(s string) string {
	return sentenceStart.ReplaceAllStringFunc(strings.ToLower(s), strings.ToUpper)
}

// AlternatingCase lowercases even rune positions and uppercases odd ones.
func AlternatingCase(s string) string {
	var b strings.Builder
	i := 0
	for _, r := range s {
		if i%2 == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		i++
	}
	return b.String()
}

// InverseCase swaps the case of every letter.
func InverseCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.ToUpper(r) == r {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

func (c *Converter) convertCase(in Input) (*smartdocs.Artifact, error) {
	text, err := readText(CaseConverter, in)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("Case Conversion Results\nGenerated by SmartDocsHub.com\n\n")
	fmt.Fprintf(&b, "Original File: %s\nConversion Date: %s\n", in.Name, c.now().Format("January 2, 2006 15:04 UTC"))
	for _, sec := range []struct{ heading, body string }{
		{"ORIGINAL TEXT", text},
		{"UPPERCASE", strings.ToUpper(text)},
		{"lowercase", strings.ToLower(text)},
		{"Title Case", TitleCase(text)},
		{"Sentence case", SentenceCase(text)},
		{"ALTERNATING cAsE", AlternatingCase(text)},
		{"iNVERSE cASE", InverseCase(text)},
	} {
		fmt.Fprintf(&b, "\n=== %s ===\n%s\n", sec.heading, sec.body)
	}
	b.WriteString("\nSmartDocsHub.com - Your Premium Document Platform\n")
	return c.artifact(in.base()+"_case_converted.txt", smartdocs.FormatText, []byte(b.String())), nil
}
