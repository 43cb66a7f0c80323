package formatter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/agenda/internal/models"
)

const (
	vcardVersion   = "3.0"
	vcardLineLimit = 75
	crlf           = "\r\n"
)

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", `\,`,
	";", `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// ExportToVCard writes one vCard 3.0 card per contact, with CRLF line endings and
// long lines folded at 75 octets.
func ExportToVCard(w io.Writer, contacts []*models.Contact) error {
	var b strings.Builder

	for _, c := range contacts {
		writeCard(&b, c)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write vCard: %w", err)
	}
	return nil
}

func writeCard(b *strings.Builder, c *models.Contact) {
	given, family := splitName(c.Name)

	writeLine(b, "BEGIN:VCARD")
	writeLine(b, "VERSION:"+vcardVersion)
	if c.UID != "" {
		writeLine(b, "UID:urn:uuid:"+c.UID)
	}
	writeLine(b, "FN:"+escapeText(c.Name))
	writeLine(b, "N:"+escapeText(family)+";"+escapeText(given)+";;;")
	if c.Phone != "" {
		writeLine(b, "TEL;TYPE=VOICE:"+escapeText(c.Phone))
	}
	if c.Email != "" {
		writeLine(b, "EMAIL;TYPE=INTERNET:"+escapeText(c.Email))
	}
	if c.Address != "" {
		writeLine(b, "ADR;TYPE=HOME:;;"+escapeText(c.Address)+";;;;")
	}
	if c.Notes != "" {
		writeLine(b, "NOTE:"+escapeText(c.Notes))
	}
	if !c.UpdatedAt.IsZero() {
		writeLine(b, "REV:"+c.UpdatedAt.UTC().Format("20060102T150405Z"))
	}
	writeLine(b, "END:VCARD")
}

// splitName treats the last word of a name as the family name.
func splitName(name string) (given, family string) {
	name = strings.TrimSpace(name)
	i := strings.LastIndexByte(name, ' ')
	if i < 0 {
		return name, ""
	}
	return strings.TrimSpace(name[:i]), name[i+1:]
}

func escapeText(s string) string {
	return vcardEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

// writeLine folds content lines longer than the octet limit. Continuation lines
// start with a single space, which counts toward their length.
func writeLine(b *strings.Builder, line string) {
	limit := vcardLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf + " ")
		line = line[cut:]
		limit = vcardLineLimit - 1
	}
	b.WriteString(line)
	b.WriteString(crlf)
}
