package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ProjectExtension is the file extension of RayTone project files.
const ProjectExtension = ".rt"

// validateName applies the checks shared by every user-supplied identifier.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func validateName(code Code, what, name string) error {
	if name == "" {
		return New(code, "%s cannot be empty", what)
	}

	if len(name) > 256 {
		return New(code, "%s too long (max 256 characters)", what)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", what)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(code, "%s contains invalid characters: %q", what, pattern)
		}
	}

	return nil
}

// factoryKeyRegex matches unit factory keys such as "Sequencer" or "KeyInput".
var factoryKeyRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateFactoryKey validates the key a unit factory is registered under.
func ValidateFactoryKey(key string) error {
	if err := validateName(ErrCodeInvalidKey, "factory key", key); err != nil {
		return err
	}
	if !factoryKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid factory key: %q", key)
	}
	return nil
}

// programNameRegex matches "category/name" voice program names.
var programNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*/[A-Za-z0-9][A-Za-z0-9 _.-]*$`)

// ValidateProgramName validates a voice program name of the form
// "category/name", as listed by the program library.
func ValidateProgramName(name string) error {
	if err := validateName(ErrCodeInvalidProgram, "program name", name); err != nil {
		return err
	}
	if !programNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProgram, "program name must look like category/name: %q", name)
	}
	return nil
}

// ValidateAssetName validates an asset reference as stored in a project
// file. Project files only ever hold bare file names; the loader re-roots
// them under the project's Assets directory.
func ValidateAssetName(name string) error {
	if err := validateName(ErrCodeInvalidAsset, "asset name", name); err != nil {
		return err
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidAsset, "asset name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidAsset, "asset name cannot be a hidden file")
	}

	return nil
}

// ValidateProjectPath validates the path of a project file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must carry the .rt extension
func ValidateProjectPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ProjectExtension) {
		return New(ErrCodeInvalidPath, "project files must use the %s extension: %q", ProjectExtension, path)
	}

	return nil
}

// snapshotIDRegex matches canonical lowercase UUIDs.
var snapshotIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSnapshotID validates the id under which a snapshot was published
// to a shared store.
func ValidateSnapshotID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "snapshot id cannot be empty")
	}
	if !snapshotIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid snapshot id: %q", id)
	}
	return nil
}
