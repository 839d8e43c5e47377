// Package literal converts registries to and from the source-text literal that
// the target interpreter embeds.
package literal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/dargueta/mpfs"
)

// DefaultVariableName is the name the registry literal is bound to.
const DefaultVariableName = "MPFS"

// ValidateVariable checks that `variable` can be assigned to in the target's
// source text: an ASCII letter or underscore, then letters, digits, or
// underscores.
func ValidateVariable(variable string) error {
	if variable == "" {
		return mpfs.ErrNameValidation.WithMessage("variable name is empty")
	}
	for i, char := range variable {
		isLetter := (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == '_'
		isDigit := char >= '0' && char <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return mpfs.ErrNameValidation.WithMessage(
				fmt.Sprintf("invalid variable name %q: bad character %q", variable, char))
		}
	}
	return nil
}

// RenderContainer writes the container as a literal tuple body:
//
//	size,format,b"table",b"payload"
//
// Table and payload bytes are written as-is, one byte per symbol.
func RenderContainer(w io.Writer, container mpfs.Container) error {
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "%d,%d,b\"", container.Size, int(container.Format))
	writer.Write(container.Table)
	writer.WriteString("\",b\"")
	writer.Write(container.Payload)
	writer.WriteString("\"")
	return writer.Flush()
}

// RenderRegistry writes a complete registry literal:
//
//	MPFS={"name":(size,format,b"table",b"payload"),...}
//
// followed by a newline. Entries appear in the order given. Nothing is written
// if `variable` fails [ValidateVariable].
func RenderRegistry(w io.Writer, variable string, entries []mpfs.Entry) error {
	if err := ValidateVariable(variable); err != nil {
		return err
	}

	writer := bufio.NewWriter(w)
	writer.WriteString(variable)
	writer.WriteString("={")

	for i, entry := range entries {
		if i > 0 {
			writer.WriteByte(',')
		}
		writer.WriteByte('"')
		writer.WriteString(entry.Name)
		writer.WriteString("\":(")
		if err := RenderContainer(writer, entry.Container); err != nil {
			return err
		}
		writer.WriteByte(')')
	}

	writer.WriteString("}\n")
	return writer.Flush()
}

////////////////////////////////////////////////////////////////////////////////

// literalScanner is a cursor over a registry literal.
type literalScanner struct {
	text []byte
	pos  int
}

func (s *literalScanner) fail(message string) error {
	return mpfs.ErrCorruptData.WithMessage(
		fmt.Sprintf("bad registry literal at offset %d: %s", s.pos, message))
}

func (s *literalScanner) expect(token string) error {
	if !bytes.HasPrefix(s.text[s.pos:], []byte(token)) {
		return s.fail(fmt.Sprintf("expected %q", token))
	}
	s.pos += len(token)
	return nil
}

func (s *literalScanner) peek() (byte, bool) {
	if s.pos >= len(s.text) {
		return 0, false
	}
	return s.text[s.pos], true
}

// quoted reads bytes up to the next double quote and consumes the quote. This
// works because neither names nor transcoded text can contain a quote.
func (s *literalScanner) quoted() ([]byte, error) {
	end := bytes.IndexByte(s.text[s.pos:], '"')
	if end < 0 {
		return nil, s.fail("unterminated string")
	}
	value := s.text[s.pos : s.pos+end]
	s.pos += end + 1
	return value, nil
}

func (s *literalScanner) integer() (int64, error) {
	start := s.pos
	for s.pos < len(s.text) && s.text[s.pos] >= '0' && s.text[s.pos] <= '9' {
		s.pos++
	}
	value, err := strconv.ParseInt(string(s.text[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, s.fail("expected a non-negative integer")
	}
	return value, nil
}

func (s *literalScanner) container() (mpfs.Container, error) {
	var container mpfs.Container

	size, err := s.integer()
	if err != nil {
		return container, err
	}
	if err = s.expect(","); err != nil {
		return container, err
	}
	format, err := s.integer()
	if err != nil {
		return container, err
	}
	if !mpfs.Format(format).IsValid() {
		return container, mpfs.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("unknown file format: %d", format))
	}
	if err = s.expect(",b\""); err != nil {
		return container, err
	}
	table, err := s.quoted()
	if err != nil {
		return container, err
	}
	if err = s.expect(",b\""); err != nil {
		return container, err
	}
	payload, err := s.quoted()
	if err != nil {
		return container, err
	}

	container.Size = size
	container.Format = mpfs.Format(format)
	container.Table = append([]byte(nil), table...)
	container.Payload = append([]byte(nil), payload...)
	return container, nil
}

// ParseRegistry reads a literal produced by [RenderRegistry], returning the
// variable name and the entries in the order they appear.
func ParseRegistry(text []byte) (string, []mpfs.Entry, error) {
	scanner := &literalScanner{text: text}

	equals := bytes.IndexByte(text, '=')
	if equals <= 0 {
		return "", nil, scanner.fail("missing variable assignment")
	}
	variable := string(text[:equals])
	if err := ValidateVariable(variable); err != nil {
		return "", nil, mpfs.ErrCorruptData.Wrap(err)
	}
	scanner.pos = equals + 1

	if err := scanner.expect("{"); err != nil {
		return "", nil, err
	}

	var entries []mpfs.Entry
	seen := make(map[string]bool)
	for {
		next, ok := scanner.peek()
		if !ok {
			return "", nil, scanner.fail("unexpected end of literal")
		}
		if next == '}' {
			scanner.pos++
			break
		}
		if len(entries) > 0 {
			if err := scanner.expect(","); err != nil {
				return "", nil, err
			}
		}

		if err := scanner.expect("\""); err != nil {
			return "", nil, err
		}
		rawName, err := scanner.quoted()
		if err != nil {
			return "", nil, err
		}
		name := string(rawName)
		if seen[name] {
			return "", nil, mpfs.ErrCorruptData.WithMessage(
				fmt.Sprintf("duplicate file name %q", name))
		}
		seen[name] = true

		if err = scanner.expect(":("); err != nil {
			return "", nil, err
		}
		container, err := scanner.container()
		if err != nil {
			return "", nil, fmt.Errorf("entry %q: %w", name, err)
		}
		if err = scanner.expect(")"); err != nil {
			return "", nil, err
		}
		entries = append(entries, mpfs.Entry{Name: name, Container: container})
	}

	// Allow trailing whitespace, nothing else.
	if len(bytes.TrimSpace(text[scanner.pos:])) != 0 {
		return "", nil, scanner.fail("trailing data after registry")
	}
	return variable, entries, nil
}
