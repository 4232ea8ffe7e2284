/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package google imports a Google Contacts vCard export (CSV exports are not
// read): Google emits
// vCard 3.0 with legacy positional TYPE parameters and, for notes, ad hoc
// quoted-printable encoding, so each card is rewritten into clean vCard 4.0
// text before being handed to vcardio. Grounded line-for-line on
// original_source/src/import/google.rs.
package google

import (
	"fmt"
	"strings"
)

const (
	beginVCard = "BEGIN:VCARD"
	endVCard   = "END:VCARD"
)

// splitCards splits a Google export's raw text into the line groups of its
// individual BEGIN:VCARD/END:VCARD blocks.
func splitCards(content string) [][]string {
	var cards [][]string
	var current []string
	inside := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.EqualFold(line, beginVCard) {
			if inside && len(current) > 0 {
				cards = append(cards, current)
				current = nil
			}
			inside = true
		}
		if inside {
			current = append(current, line)
			if strings.EqualFold(line, endVCard) {
				cards = append(cards, current)
				current = nil
				inside = false
			}
		}
	}
	if inside && len(current) > 0 {
		cards = append(cards, current)
	}
	return cards
}

// convertGoogleCard rewrites one Google-flavored vCard 3.0 line group into
// vCard 4.0 text ready for vcardio.DecodeCard.
func convertGoogleCard(lines []string) (string, error) {
	unfolded := unfoldLines(lines)

	output := []string{beginVCard, "VERSION:4.0"}
	for _, line := range unfolded {
		if strings.EqualFold(line, beginVCard) || strings.EqualFold(line, endVCard) {
			continue
		}
		lhs, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(lhs, "VERSION") {
			continue
		}
		converted, err := convertProperty(lhs, value)
		if err != nil {
			return "", err
		}
		if converted != "" {
			output = append(output, converted)
		}
	}
	output = append(output, endVCard)
	return strings.Join(output, "\r\n") + "\r\n", nil
}

// unfoldLines joins quoted-printable soft line breaks ("=" at end of line,
// optionally continued with leading whitespace) back into one logical line.
func unfoldLines(lines []string) []string {
	var unfolded []string
	for _, line := range lines {
		handled := false
		if n := len(unfolded); n > 0 {
			last := unfolded[n-1]
			switch {
			case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
				if strings.HasSuffix(last, "=") && hasQuotedPrintableEncoding(last) {
					last = last[:len(last)-1]
				}
				tail := strings.TrimLeft(line, " \t")
				unfolded[n-1] = last + tail
				handled = true
			case strings.HasSuffix(last, "=") && hasQuotedPrintableEncoding(last):
				unfolded[n-1] = last[:len(last)-1] + line
				handled = true
			}
		}
		if !handled {
			unfolded = append(unfolded, line)
		}
	}
	return unfolded
}

func hasQuotedPrintableEncoding(line string) bool {
	prefix, _, ok := strings.Cut(line, ":")
	if !ok {
		return false
	}
	parts := strings.Split(prefix, ";")
	for _, part := range parts[1:] {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if name, value, ok := strings.Cut(trimmed, "="); ok {
			if strings.EqualFold(strings.TrimSpace(name), "ENCODING") && strings.EqualFold(strings.TrimSpace(value), "QUOTED-PRINTABLE") {
				return true
			}
		} else if strings.EqualFold(trimmed, "QUOTED-PRINTABLE") {
			return true
		}
	}
	return false
}

type parsedParameters struct {
	params          []parameter
	addPref         bool
	photoMediaType  string
	quotedPrintable bool
	base64          bool
}

type parameter struct {
	name   string
	values []string
}

func (p parameter) String() string {
	if len(p.values) == 0 {
		return p.name
	}
	var formatted string
	if len(p.values) == 1 {
		formatted = formatParamValue(p.values[0])
	} else {
		trimmed := make([]string, len(p.values))
		for i, v := range p.values {
			trimmed[i] = strings.TrimSpace(v)
		}
		formatted = strings.Join(trimmed, ",")
	}
	return p.name + "=" + formatted
}

func convertProperty(lhs, value string) (string, error) {
	parts := strings.Split(lhs, ";")
	if len(parts) == 0 || parts[0] == "" {
		return "", fmt.Errorf("property without name")
	}

	group, name := splitGroup(parts[0])
	upperName := strings.ToUpper(name)

	parsed := parseParameters(parts[1:], upperName)

	processedValue, err := processValue(value, parsed)
	if err != nil {
		return "", err
	}

	if parsed.addPref {
		parsed.params = append(parsed.params, parameter{name: "PREF", values: []string{"1"}})
	}
	if parsed.photoMediaType != "" {
		parsed.params = append(parsed.params, parameter{name: "MEDIATYPE", values: []string{strings.ToLower(parsed.photoMediaType)}})
	}

	return formatPropertyLine(group, upperName, parsed.params, processedValue), nil
}

func splitGroup(property string) (group, name string) {
	if idx := strings.Index(property, "."); idx >= 0 {
		return property[:idx], property[idx+1:]
	}
	return "", property
}

func parseParameters(rawParams []string, propertyName string) *parsedParameters {
	parsed := &parsedParameters{}
	for _, param := range rawParams {
		trimmed := strings.TrimSpace(param)
		if trimmed == "" {
			continue
		}
		if name, value, ok := strings.Cut(trimmed, "="); ok {
			handleNamedParameter(name, value, propertyName, parsed)
		} else {
			handlePositionalParameter(trimmed, propertyName, parsed)
		}
	}
	return parsed
}

func handleNamedParameter(name, value, propertyName string, parsed *parsedParameters) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CHARSET":
		// dropped: Go strings are always UTF-8.
	case "ENCODING":
		switch strings.ToUpper(strings.TrimSpace(value)) {
		case "QUOTED-PRINTABLE":
			parsed.quotedPrintable = true
		case "B", "BASE64":
			parsed.base64 = true
		}
	case "TYPE":
		var values []string
		for _, part := range strings.Split(value, ",") {
			item := strings.TrimSpace(part)
			if strings.EqualFold(item, "PREF") {
				parsed.addPref = true
				continue
			}
			if strings.EqualFold(propertyName, "PHOTO") {
				if media := mediaTypeFromExtension(item); media != "" {
					parsed.photoMediaType = media
					continue
				}
			}
			values = append(values, item)
		}
		if len(values) > 0 {
			parsed.params = append(parsed.params, parameter{name: "TYPE", values: values})
		}
	case "PREF":
		parsed.addPref = true
	default:
		parsed.params = append(parsed.params, parameter{name: strings.ToUpper(strings.TrimSpace(name)), values: []string{cleanQuotes(value)}})
	}
}

func handlePositionalParameter(param, propertyName string, parsed *parsedParameters) {
	switch {
	case strings.EqualFold(param, "PREF"):
		parsed.addPref = true
	case strings.EqualFold(param, "BASE64"):
		parsed.base64 = true
	case strings.EqualFold(param, "QUOTED-PRINTABLE"):
		parsed.quotedPrintable = true
	case strings.EqualFold(propertyName, "PHOTO"):
		if media := mediaTypeFromExtension(param); media != "" {
			parsed.photoMediaType = media
		}
	default:
		parsed.params = append(parsed.params, parameter{name: "TYPE", values: []string{param}})
	}
}

func processValue(value string, params *parsedParameters) (string, error) {
	out := strings.TrimSpace(value)

	if params.quotedPrintable {
		decoded, err := decodeQuotedPrintable(out)
		if err != nil {
			return "", err
		}
		out = decoded
	}

	if params.base64 {
		out = strings.NewReplacer("\n", "", "\r", "", " ", "").Replace(out)
		if params.photoMediaType != "" {
			out = fmt.Sprintf("data:%s;base64,%s", params.photoMediaType, out)
		}
	}

	if params.quotedPrintable {
		out = strings.ReplaceAll(out, "\r", "")
		out = strings.ReplaceAll(out, "\n", "\\n")
	}

	return out, nil
}

func formatPropertyLine(group, name string, params []parameter, value string) string {
	var b strings.Builder
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(name)
	for _, p := range params {
		b.WriteByte(';')
		b.WriteString(p.String())
	}
	b.WriteByte(':')
	b.WriteString(value)
	return b.String()
}

func decodeQuotedPrintable(input string) (string, error) {
	chars := []rune(input)
	var out []byte
	i := 0
	for i < len(chars) {
		if chars[i] != '=' {
			out = append(out, byte(chars[i]))
			i++
			continue
		}
		if i+1 >= len(chars) {
			break
		}
		switch chars[i+1] {
		case '\r':
			i += 2
			if i < len(chars) && chars[i] == '\n' {
				i++
			}
		case '\n':
			i += 2
		default:
			if i+2 >= len(chars) {
				return "", fmt.Errorf("truncated quoted-printable escape")
			}
			a, b := chars[i+1], chars[i+2]
			v, ok := decodeHexPair(a, b)
			if !ok {
				return "", fmt.Errorf("invalid quoted-printable escape: =%c%c", a, b)
			}
			out = append(out, v)
			i += 3
		}
	}
	return string(out), nil
}

func decodeHexPair(a, b rune) (byte, bool) {
	high, ok := hexDigit(a)
	if !ok {
		return 0, false
	}
	low, ok := hexDigit(b)
	if !ok {
		return 0, false
	}
	return byte(high<<4 | low), true
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

func cleanQuotes(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}

func formatParamValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.ContainsAny(trimmed, ",;:") {
		return `"` + trimmed + `"`
	}
	return trimmed
}

func mediaTypeFromExtension(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "JPEG", "JPG":
		return "image/jpeg"
	case "PNG":
		return "image/png"
	case "GIF":
		return "image/gif"
	default:
		return ""
	}
}
