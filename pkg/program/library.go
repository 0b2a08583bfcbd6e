package program

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
)

// Library is a directory of voice programs laid out as
// <dir>/<category>/<name>.ck. It is safe for concurrent use and implements
// [patch.ProgramResolver].
type Library struct {
	dir    string
	logger *log.Logger

	mu       sync.RWMutex
	programs map[string]entry
}

type entry struct {
	prog   patch.VoiceProgram
	source string
}

var _ patch.ProgramResolver = (*Library)(nil)

// NewLibrary returns an empty library rooted at dir. Call [Library.Scan] to
// load it.
func NewLibrary(dir string, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{dir: dir, logger: logger, programs: make(map[string]entry)}
}

// OpenLibrary returns a scanned library. A missing directory yields an empty
// library.
func OpenLibrary(dir string, logger *log.Logger) (*Library, error) {
	lib := NewLibrary(dir, logger)
	if err := lib.Scan(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Dir returns the library root.
func (l *Library) Dir() string { return l.dir }

// Scan replaces the library contents with the programs found on disk.
// Files whose names are not valid program names are skipped.
func (l *Library) Scan() error {
	programs := make(map[string]entry)
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		l.logger.Debug("program library missing", "dir", l.dir)
		l.mu.Lock()
		l.programs = programs
		l.mu.Unlock()
		return nil
	}
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Extension {
			return nil
		}
		name, ok := l.NameFor(path)
		if !ok {
			return nil
		}
		e, err := readEntry(name, path)
		if err != nil {
			l.logger.Warn("skipping program", "path", path, "err", err)
			return nil
		}
		programs[name] = e
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "scan program library %s", l.dir)
	}

	l.mu.Lock()
	l.programs = programs
	l.mu.Unlock()
	l.logger.Debug("scanned program library", "dir", l.dir, "programs", len(programs))
	return nil
}

// Program resolves a program header by name.
func (l *Library) Program(name string) (patch.VoiceProgram, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.programs[name]
	return e.prog, ok
}

// Source returns the raw source of a program.
func (l *Library) Source(name string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.programs[name]
	if !ok {
		return "", errors.New(errors.ErrCodeProgramNotFound, "program %q not found", name)
	}
	return e.source, nil
}

// Names lists program names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.programs))
	for name := range l.programs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Categories lists the distinct program categories in sorted order.
func (l *Library) Categories() []string {
	var cats []string
	for _, name := range l.Names() {
		cat, _, _ := strings.Cut(name, "/")
		cats = append(cats, cat)
	}
	return slices.Compact(cats)
}

// Len returns the number of programs.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.programs)
}

// Refresh re-reads one program from disk. When the file is gone the
// program is forgotten and ok is false.
func (l *Library) Refresh(name string) (prog patch.VoiceProgram, ok bool, err error) {
	if err := errors.ValidateProgramName(name); err != nil {
		return patch.VoiceProgram{}, false, err
	}
	e, err := readEntry(name, l.Path(name))
	if os.IsNotExist(err) {
		l.mu.Lock()
		delete(l.programs, name)
		l.mu.Unlock()
		return patch.VoiceProgram{}, false, nil
	}
	if err != nil {
		return patch.VoiceProgram{}, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read program %s", name)
	}
	l.mu.Lock()
	l.programs[name] = e
	l.mu.Unlock()
	return e.prog, true, nil
}

// Path returns the file a program name maps to.
func (l *Library) Path(name string) string {
	return filepath.Join(l.dir, filepath.FromSlash(name)+Extension)
}

// NameFor maps a file path inside the library back to a program name.
func (l *Library) NameFor(path string) (string, bool) {
	rel, err := filepath.Rel(l.dir, path)
	if err != nil || filepath.Ext(rel) != Extension {
		return "", false
	}
	name := filepath.ToSlash(strings.TrimSuffix(rel, Extension))
	if errors.ValidateProgramName(name) != nil {
		return "", false
	}
	return name, true
}

func readEntry(name, path string) (entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entry{}, err
	}
	src := string(data)
	return entry{prog: Parse(name, src), source: src}, nil
}
