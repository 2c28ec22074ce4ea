// Package markdown expands macro documents into markdown text and renders
// that text as HTML.
//
// A [Renderer] owns one [lang.Evaluator], so functions defined by one
// document remain available to the documents rendered after it:
//
//	r := markdown.New()
//	_ = r.Markdown(ctx, os.Stdout, strings.NewReader(`
//		(define h1 (title) ((no-spaces "# " title)))
//		(h1 Release notes)
//	`))
//
// HTML conversion uses goldmark with the GitHub Flavored Markdown
// extensions. Raw HTML in the expanded text is omitted unless the Renderer
// is created with [WithUnsafe].
package markdown
