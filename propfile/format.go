package propfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// entry is one key/value pair in file order.
type entry struct {
	key, value string
}

// writeFile renders a header comment and entries in the line-oriented
// key=value format. Keys and values are escaped so that any string,
// including leading blanks and separators, survives a round trip.
func writeFile(w io.Writer, comment string, entries []entry) error {
	bw := bufio.NewWriter(w)
	if comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			fmt.Fprintf(bw, "# %s\n", line)
		}
	}
	for _, e := range entries {
		bw.WriteString(escape(e.key, true))
		bw.WriteByte('=')
		bw.WriteString(escape(e.value, false))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// escape applies property-file escaping. Spaces are escaped everywhere in
// keys but only in leading position in values.
func escape(s string, isKey bool) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case ' ':
			if i == 0 || isKey {
				b.WriteByte('\\')
			}
			b.WriteByte(' ')
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '=', ':', '#', '!', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if r < 0x20 || r == 0x7f || r == utf8.RuneError {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// readFile parses the key=value format. Blank lines and lines starting with
// '#' or '!' are ignored, a line ending in an odd number of backslashes
// continues on the next line, and a key ends at the first unescaped '=',
// ':' or blank. \uXXXX escapes (including surrogate pairs) are decoded.
func readFile(r io.Reader) (map[string]string, error) {
	props := make(map[string]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var logical strings.Builder
	continuing := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if continuing {
			line = strings.TrimLeft(line, " \t\f")
		} else {
			trimmed := strings.TrimLeft(line, " \t\f")
			if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
				continue
			}
			line = trimmed
		}
		if trailingBackslashes(line)%2 == 1 {
			logical.WriteString(line[:len(line)-1])
			continuing = true
			continue
		}
		logical.WriteString(line)
		continuing = false

		key, value, err := splitEntry(logical.String())
		logical.Reset()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		props[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if continuing {
		key, value, err := splitEntry(logical.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		props[key] = value
	}
	return props, nil
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

// splitEntry separates a logical line into unescaped key and value.
func splitEntry(line string) (string, string, error) {
	keyEnd := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			keyEnd = i
			break
		}
	}
	rest := line[keyEnd:]
	rest = strings.TrimLeft(rest, " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}

	key, err := unescape(line[:keyEnd])
	if err != nil {
		return "", "", err
	}
	value, err := unescape(rest)
	if err != nil {
		return "", "", err
	}
	return key, value, nil
}

// unescape decodes backslash escapes.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	var units []uint16
	flushUnits := func() {
		if len(units) > 0 {
			b.WriteString(decodeUTF16(units))
			units = units[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			flushUnits()
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			flushUnits()
			b.WriteByte('\t')
		case 'n':
			flushUnits()
			b.WriteByte('\n')
		case 'r':
			flushUnits()
			b.WriteByte('\r')
		case 'f':
			flushUnits()
			b.WriteByte('\f')
		case 'u':
			if i+5 > len(s) {
				return "", fmt.Errorf("%w: truncated \\u escape", ErrSerialization)
			}
			n, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", fmt.Errorf("%w: malformed \\u escape %q", ErrSerialization, s[i-1:i+5])
			}
			units = append(units, uint16(n))
			i += 4
		default:
			flushUnits()
			b.WriteByte(s[i])
		}
	}
	flushUnits()
	return b.String(), nil
}

func decodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}
