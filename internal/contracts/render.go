package contracts

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	mainTitleRe    = regexp.MustCompile(`^[A-ZÁÉÍÓÚÜÑ\s-]+$`)
	sectionVocabRe = regexp.MustCompile(`^(REUNIDOS|EXPONEN|ESTIPULACIONES|PRIMERA|SEGUNDA|TERCERA|CUARTA|QUINTA|SEXTA|SÉPTIMA)\.?$`)
	clauseRe       = regexp.MustCompile(`^(PRIMERA|SEGUNDA|TERCERA|CUARTA|QUINTA|SEXTA|SÉPTIMA|OCTAVA|NOVENA|DÉCIMA)\.\s*(.*)`)
	signatureRe    = regexp.MustCompile(`^En\s+\S.*\s+a\s+\S.*$`)
	numberedItemRe = regexp.MustCompile(`^\d+[.)]\s+`)
	bulletItemRe   = regexp.MustCompile(`^[-•*]\s+`)

	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
)

// Render converts a plain-text contract into a full printable HTML document:
// classified and formatted paragraphs wrapped in the company document shell
// with the buyer name in the signature block.
func Render(plainText, buyerName string) string {
	if buyerName == "" {
		buyerName = NotSpecified
	}
	return fmt.Sprintf(documentShell, RenderBody(plainText), html.EscapeString(buyerName))
}

// RenderBody converts plain text into the HTML body without the document
// shell. Malformed input never fails: anything unrecognized renders as a
// plain justified paragraph.
func RenderBody(plainText string) string {
	var b strings.Builder
	for _, raw := range paragraphSplit.Split(plainText, -1) {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		b.WriteString(renderParagraph(p))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderParagraph classifies one paragraph and renders it. Checks run in
// precedence order; the first match wins.
func renderParagraph(p string) string {
	switch {
	case isMainTitle(p):
		return `<h1 class="doc-title">` + inline(p) + `</h1>`
	case isSectionHeader(p):
		return `<h2 class="section-header">` + inline(p) + `</h2>`
	case clauseRe.MatchString(p):
		return renderClause(p)
	case isSignatureLine(p):
		return `<p class="place-date">` + inline(p) + `</p>`
	case countMatchingLines(p, numberedItemRe) >= 2:
		return renderList(p, numberedItemRe, "ol")
	case countMatchingLines(p, bulletItemRe) >= 2:
		return renderList(p, bulletItemRe, "ul")
	case isTable(p):
		return renderTable(p)
	default:
		return `<p class="justified">` + inline(p) + `</p>`
	}
}

// isMainTitle matches a standalone all-caps title: letters, spaces and
// hyphens only, between 10 and 79 characters, no placeholder tokens.
func isMainTitle(p string) bool {
	n := utf8.RuneCountInString(p)
	return n >= 10 && n < 80 &&
		!strings.Contains(p, "{{") &&
		mainTitleRe.MatchString(p)
}

// isSectionHeader matches a short all-caps line or one of the fixed Spanish
// legal section names, with or without a trailing period.
func isSectionHeader(p string) bool {
	if strings.Contains(p, "\n") {
		return false
	}
	if sectionVocabRe.MatchString(p) {
		return true
	}
	return utf8.RuneCountInString(p) < 30 && isAllCaps(p)
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// renderClause formats a numbered clause: the ordinal and the
// period-delimited title in bold, then the justified body.
func renderClause(p string) string {
	m := clauseRe.FindStringSubmatch(p)
	ordinal, rest := m[1], m[2]

	title := rest
	body := ""
	if idx := strings.Index(rest, "."); idx >= 0 {
		title = strings.TrimSpace(rest[:idx])
		body = strings.TrimSpace(rest[idx+1:])
	}

	var b strings.Builder
	b.WriteString(`<p class="clause"><strong>`)
	b.WriteString(inline(ordinal + ". " + title + "."))
	b.WriteString(`</strong>`)
	if body != "" {
		b.WriteString(" ")
		b.WriteString(inline(body))
	}
	b.WriteString(`</p>`)
	return b.String()
}

func isSignatureLine(p string) bool {
	return !strings.Contains(p, "\n") && signatureRe.MatchString(p)
}

// renderList builds an ordered or unordered list. Lines matching the item
// pattern start a new item; other lines continue the previous item after a
// line break.
func renderList(p string, itemRe *regexp.Regexp, tag string) string {
	var items []string
	for _, line := range strings.Split(p, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if itemRe.MatchString(line) {
			items = append(items, itemRe.ReplaceAllString(line, ""))
		} else if len(items) > 0 {
			items[len(items)-1] += "<br>" + line
		} else {
			items = append(items, line)
		}
	}

	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, item := range items {
		// continuation breaks were inserted pre-escaping; escape around them
		parts := strings.Split(item, "<br>")
		for i := range parts {
			parts[i] = inline(parts[i])
		}
		b.WriteString("<li>" + strings.Join(parts, "<br>") + "</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

func countMatchingLines(p string, re *regexp.Regexp) int {
	n := 0
	for _, line := range strings.Split(p, "\n") {
		if re.MatchString(strings.TrimSpace(line)) {
			n++
		}
	}
	return n
}

// isTable matches a paragraph with a pipe-delimited row of more than two cells
func isTable(p string) bool {
	for _, line := range strings.Split(p, "\n") {
		if strings.Count(line, "|") >= 2 && len(splitCells(line)) > 2 {
			return true
		}
	}
	return false
}

func splitCells(line string) []string {
	var cells []string
	for _, c := range strings.Split(line, "|") {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// renderTable builds an HTML table. A row whose cells are all uppercase and
// longer than three characters is treated as a header row.
func renderTable(p string) string {
	var b strings.Builder
	b.WriteString(`<table class="doc-table">`)
	for _, line := range strings.Split(p, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := splitCells(line)
		if len(cells) == 0 {
			continue
		}
		tag := "td"
		if isHeaderRow(cells) {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, c := range cells {
			b.WriteString("<" + tag + ">" + inline(c) + "</" + tag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func isHeaderRow(cells []string) bool {
	for _, c := range cells {
		if utf8.RuneCountInString(c) <= 3 || !isAllCaps(c) {
			return false
		}
	}
	return true
}

// inline escapes text and applies inline markers: **bold**, *italic* and a
// highlight on any remaining {{token}} so missing data is visible in print.
func inline(s string) string {
	out := html.EscapeString(s)
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = tokenPattern.ReplaceAllString(out, `<strong class="token">{{$1}}</strong>`)
	return out
}

// documentShell wraps the rendered body. First %s is the body, second is the
// buyer name in the signature block.
const documentShell = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Contrato</title>
<style>
  body { font-family: "Times New Roman", serif; font-size: 12pt; margin: 2.5cm; color: #1a1a1a; }
  .doc-header { text-align: center; margin-bottom: 24px; }
  .doc-header .logo { font-size: 20pt; font-weight: bold; letter-spacing: 2px; }
  .doc-title { text-align: center; border: 2px solid #1a1a1a; padding: 10px; font-size: 14pt; }
  .section-header { text-align: center; border-top: 1px solid #1a1a1a; border-bottom: 1px solid #1a1a1a; padding: 6px; font-size: 12pt; }
  .clause, .justified { text-align: justify; line-height: 1.5; }
  .place-date { text-align: right; margin-top: 32px; }
  .doc-table { width: 100%%; border-collapse: collapse; margin: 12px 0; }
  .doc-table td, .doc-table th { border: 1px solid #666; padding: 6px; }
  .doc-table th { background: #e8e8e8; font-weight: bold; }
  .token { background: #fff3a0; }
  .signatures { display: flex; justify-content: space-between; margin-top: 64px; }
  .signatures div { width: 45%%; text-align: center; border-top: 1px solid #1a1a1a; padding-top: 8px; }
  .doc-footer { margin-top: 48px; text-align: center; font-size: 9pt; color: #666; }
</style>
</head>
<body>
<div class="doc-header"><span class="logo">NOMADE CAMPERS</span></div>
%s
<div class="signatures">
  <div>EL VENDEDOR<br>Nomade Campers S.L.</div>
  <div>EL COMPRADOR<br>%s</div>
</div>
<div class="doc-footer">Nomade Campers S.L. &middot; CIF B-00000000 &middot; www.nomadecampers.es</div>
</body>
</html>`
