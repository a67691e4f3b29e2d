package confstore

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

// Load merges the overlay directories and the primary file into the
// schema's entries. It returns false without reading any file contents when
// nothing on disk is newer than the previous load, so it is cheap to call
// often. Missing or unreadable files are skipped.
//
// Files are applied from lowest to highest precedence: SystemDir fragments,
// UserDir fragments, then Path. Values are not reset between loads.
func (s *Store) Load() bool {
	latest, fragments := s.scan()
	if !latest.After(s.lastLoad) {
		log.WithFields(logger.Fields{
			"at":        "confstore.Load",
			"path":      s.path,
			"last_load": s.lastLoad,
		}).Debug("config_unchanged")
		return false
	}
	s.lastLoad = latest
	s.unusedSections = false
	s.unusedVariables = false

	for _, path := range fragments {
		s.loadFile(path)
	}
	if s.path != "" {
		s.loadFile(s.path)
	}

	log.WithFields(logger.Fields{
		"at":               "confstore.Load",
		"path":             s.path,
		"fragments":        len(fragments),
		"unused_sections":  s.unusedSections,
		"unused_variables": s.unusedVariables,
	}).Debug("config_loaded")
	return true
}

// scan returns the newest modification time among the primary file, the
// overlay directories and their files, along with the overlay files in
// application order. Directory mtimes catch added and removed fragments.
func (s *Store) scan() (time.Time, []string) {
	var latest time.Time
	bump := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}

	if s.path != "" {
		if info, err := s.fs.Stat(s.path); err == nil {
			bump(info.ModTime())
		}
	}

	var fragments []string
	for _, dir := range []string{s.systemDir, s.userDir} {
		fragments = append(fragments, s.fragments(dir, bump)...)
	}
	return latest, fragments
}

// fragments lists the regular files of dir in collation order.
func (s *Store) fragments(dir string, bump func(time.Time)) []string {
	if dir == "" {
		return nil
	}
	info, err := s.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	bump(info.ModTime())

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":  "confstore.fragments",
			"dir": dir,
		}).WithError(err).Warn("cannot read overlay directory")
		return nil
	}

	var names []string
	for _, fi := range infos {
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := s.fs.Stat(filepath.Join(dir, fi.Name()))
			if err != nil {
				continue
			}
			fi = target
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		bump(fi.ModTime())
		names = append(names, fi.Name())
	}
	s.collator.SortStrings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

func (s *Store) loadFile(path string) {
	f, err := s.fs.Open(path)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":   "confstore.loadFile",
			"path": path,
		}).WithError(err).Debug("skipping unreadable config file")
		return
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	current := s.implicit
	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			current = s.apply(path, current, classify(raw))
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.WithFields(logger.Fields{
				"at":   "confstore.loadFile",
				"path": path,
			}).WithError(err).Warn("config file read aborted")
			return
		}
	}
}

// apply feeds one line of path into the schema and returns the section that
// following assignments belong to, nil inside an unknown section.
func (s *Store) apply(path string, current *Section, l line) *Section {
	switch l.kind {
	case lineAssignment:
		var e Value
		if current != nil {
			e = current.Entry(l.key)
		}
		if e == nil {
			s.unusedVariables = true
			log.WithFields(logger.Fields{
				"at":   "confstore.loadFile",
				"path": path,
				"key":  l.key,
			}).Debug("unused_variable")
			return current
		}
		if err := e.Parse(l.value); err != nil {
			log.WithFields(logger.Fields{
				"at":    "confstore.loadFile",
				"path":  path,
				"key":   l.key,
				"value": l.value,
			}).WithError(err).Debug("keeping previous value")
		}
	case lineHeader:
		current = s.resolveSection(l.section)
		if current == nil {
			s.unusedSections = true
			log.WithFields(logger.Fields{
				"at":      "confstore.loadFile",
				"path":    path,
				"section": l.section,
			}).Debug("unused_section")
		}
	}
	return current
}
