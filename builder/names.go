package builder

import (
	"fmt"
	"strings"

	"github.com/dargueta/mpfs"
	"github.com/hashicorp/go-multierror"
)

// FilenameCharacters are the characters that can be typed on the target's
// input method, excluding space and both quote characters.
const FilenameCharacters = "()*+,-./0123456789=ABCDEFGHIJKLMNOPQRSTUVWXYZ[]" +
	"abcdefghijklmnopqrstuvwxyz{}"

// ValidateName checks that `name` is non-empty and uses only
// [FilenameCharacters].
func ValidateName(name string) error {
	if name == "" {
		return mpfs.ErrNameValidation.WithMessage("file name is empty")
	}
	for _, char := range name {
		if !strings.ContainsRune(FilenameCharacters, char) {
			return mpfs.ErrNameValidation.WithMessage(
				fmt.Sprintf("the filename %q contains disallowed character %q", name, char))
		}
	}
	return nil
}

// ValidateNames checks every name with [ValidateName] and also rejects
// duplicates. All problems are collected into a single error.
func ValidateNames(names []string) error {
	var result *multierror.Error
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if err := ValidateName(name); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if seen[name] {
			result = multierror.Append(
				result,
				mpfs.ErrNameValidation.WithMessage(fmt.Sprintf("duplicate file name %q", name)),
			)
		}
		seen[name] = true
	}
	return result.ErrorOrNil()
}
