package xmlstream

import (
	"strconv"
	"strings"
	"unicode/utf8"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
)

var namedEntities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

// decodeEntities expands character references in text or attribute content.
// Supported: the five predefined named entities plus decimal (&#NN;) and
// hexadecimal (&#xHH;) numeric references.
func decodeEntities(s string) (string, error) {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		sb.WriteString(s[:amp])
		s = s[amp:]
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			return "", fserrors.NewMalformedDocumentError("entity", "unterminated entity reference %q", clip(s))
		}
		ref := s[1:semi]
		r, err := resolveEntity(ref)
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
		s = s[semi+1:]
		amp = strings.IndexByte(s, '&')
		if amp < 0 {
			sb.WriteString(s)
			return sb.String(), nil
		}
	}
}

func resolveEntity(ref string) (rune, error) {
	if ref == "" {
		return 0, fserrors.NewMalformedDocumentError("entity", "empty entity reference")
	}
	if ref[0] != '#' {
		if r, ok := namedEntities[ref]; ok {
			return r, nil
		}
		return 0, fserrors.NewMalformedDocumentError("entity", "unknown entity &%s;", ref)
	}
	num := ref[1:]
	base := 10
	if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
		base = 16
		num = num[1:]
	}
	n, err := strconv.ParseInt(num, base, 32)
	if err != nil {
		return 0, fserrors.NewMalformedDocumentError("entity", "invalid numeric entity &%s;", ref)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, fserrors.NewMalformedDocumentError("entity", "numeric entity &%s; is not a valid character", ref)
	}
	return r, nil
}

func clip(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}

// escapeText escapes element text content: the markup characters always, and
// CR/LF/TAB as numeric references so formatting whitespace stays
// distinguishable from content whitespace.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes attribute values: like escapeText plus both quote kinds.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r", "&#xD;",
	"\n", "&#xA;",
	"\t", "&#x9;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\r", "&#xD;",
	"\n", "&#xA;",
	"\t", "&#x9;",
)
