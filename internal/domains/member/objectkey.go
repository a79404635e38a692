package member

import (
	"fmt"
	"strings"
)

// PhotoExtension returns the lower-cased text after the first '.' in an
// uploaded filename. A dotless or dot-terminated name has no usable
// extension.
func PhotoExtension(filename string) (string, error) {
	parts := strings.SplitN(filename, ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", ErrBadImageName
	}
	return strings.ToLower(parts[1]), nil
}

// PhotoObjectKey derives the object-storage key for a member's photo. The id
// suffix keeps two members with identical names from overwriting each other's
// uploads.
func PhotoObjectKey(m *Member, ext string) string {
	return fmt.Sprintf("%s %d.%s", m.FullName(), m.ID, ext)
}

// LocalImageName names the on-disk copy written by the update flow: full name
// plus extension, no id.
func LocalImageName(firstName, middleName, lastName, ext string) string {
	return fmt.Sprintf("%s %s %s.%s", firstName, middleName, lastName, ext)
}
