package godeck

import (
	"strings"

	"golang.org/x/net/html"
)

// Inline-markup run builder. A constrained set of inline tags is
// recognized: <b>/<strong> (weight 700), <i>/<em> (italic), <u>
// (underline), <s>/<strike>/<del> (strike-through), <code> (monospace),
// and <br> (explicit line break). Anything else is ignored but still
// tracked on the tag stack so its close tag cannot unbalance parsing.

// monospaceFontName overrides the font family inside <code> spans.
const monospaceFontName = "Courier New"

// ParseInlineMarkup parses text containing inline markup into an ordered
// run sequence. Newlines are normalized and treated as <br>. Break runs
// carry Text "\n" and no font. Literal text yields one run whose font is
// the base font layered with the modifiers of all currently-open tags;
// a nil base falls back to DefaultFont. Run order follows input order.
func ParseInlineMarkup(text string, base *Font) []*TextRunModel {
	if base == nil {
		base = DefaultFont()
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", "<br>")

	z := html.NewTokenizer(strings.NewReader(normalized))
	var stack []string
	var runs []*TextRunModel

	for {
		switch z.Next() {
		case html.ErrorToken:
			return runs

		case html.StartTagToken:
			tag := tokenTag(z)
			if tag == "br" {
				runs = append(runs, &TextRunModel{Text: "\n"})
				continue
			}
			stack = append(stack, tag)

		case html.SelfClosingTagToken:
			// <br/> breaks; other self-closing tags open and close at
			// once and contribute nothing.
			if tokenTag(z) == "br" {
				runs = append(runs, &TextRunModel{Text: "\n"})
			}

		case html.EndTagToken:
			stack = popNearest(stack, tokenTag(z))

		case html.TextToken:
			data := string(z.Text())
			if data == "" {
				continue
			}
			runs = append(runs, &TextRunModel{
				Text: data,
				Font: layeredFont(base, stack),
			})
		}
	}
}

func tokenTag(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}

// popNearest removes the nearest matching open tag from the top of the
// stack, tolerating malformed nesting; an unmatched close tag is a no-op.
func popNearest(stack []string, tag string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return append(stack[:i], stack[i+1:]...)
		}
	}
	return stack
}

// layeredFont computes the effective font for the currently-open tags.
func layeredFont(base *Font, stack []string) *Font {
	f := base.Clone()
	for _, tag := range stack {
		switch tag {
		case "strong", "b":
			f.Weight = 700
		case "em", "i":
			f.Italic = true
		case "u":
			f.SetUnderline(true)
		case "s", "strike", "del":
			f.SetStrike(true)
		case "code":
			f.Name = monospaceFontName
		}
	}
	return f
}
