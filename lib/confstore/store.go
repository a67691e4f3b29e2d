package confstore

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/afero"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

var log = logger.GetSddmLogger()

// DefaultImplicitSection receives keys that appear before any [header].
const DefaultImplicitSection = "General"

// Options describes where a Store reads and writes its configuration.
type Options struct {
	// Path is the primary config file. It has the highest precedence and is
	// the only file Save ever writes.
	Path string
	// UserDir holds overlay fragments that override SystemDir.
	UserDir string
	// SystemDir holds overlay fragments with the lowest precedence.
	SystemDir string
	// ImplicitSection names the section used for keys before any header.
	// Defaults to DefaultImplicitSection.
	ImplicitSection string
	// Renames maps historical section names to their current names.
	Renames map[string]string
	// Fs is the filesystem to operate on. Defaults to the OS filesystem.
	Fs afero.Fs
	// Locale selects the collation used to order overlay fragments.
	// language.Und means "detect from the environment".
	Locale language.Tag
}

// Store is a set of sections backed by a primary file and two overlay
// directories. It is not safe for concurrent use.
type Store struct {
	path      string
	userDir   string
	systemDir string
	fs        afero.Fs
	renames   map[string]string
	collator  *collate.Collator

	sections map[string]*Section
	implicit *Section

	lastLoad        time.Time
	unusedSections  bool
	unusedVariables bool
}

// New creates a store and registers its implicit section. Register the rest
// of the schema with AddSection before the first Load.
func New(opts Options) *Store {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	implicit := opts.ImplicitSection
	if implicit == "" {
		implicit = DefaultImplicitSection
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = LocaleFromEnv()
	}
	renames := make(map[string]string, len(opts.Renames))
	for from, to := range opts.Renames {
		renames[from] = to
	}

	s := &Store{
		path:      opts.Path,
		userDir:   opts.UserDir,
		systemDir: opts.SystemDir,
		fs:        fs,
		renames:   renames,
		collator:  collate.New(locale),
		sections:  make(map[string]*Section),
	}
	s.implicit = s.AddSection(implicit)

	log.WithFields(logger.Fields{
		"at":         "confstore.New",
		"path":       s.path,
		"user_dir":   s.userDir,
		"system_dir": s.systemDir,
		"locale":     locale.String(),
	}).Debug("config_store_created")
	return s
}

func (s *Store) Path() string      { return s.path }
func (s *Store) UserDir() string   { return s.userDir }
func (s *Store) SystemDir() string { return s.systemDir }
func (s *Store) Fs() afero.Fs      { return s.fs }

// Implicit returns the section that receives keys appearing before any header.
func (s *Store) Implicit() *Section { return s.implicit }

// Section returns the named section, or nil.
func (s *Store) Section(name string) *Section {
	return s.sections[name]
}

// Sections returns every registered section ordered by name.
func (s *Store) Sections() []*Section {
	out := make([]*Section, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, sec)
	}
	slices.SortFunc(out, func(a, b *Section) int { return strings.Compare(a.name, b.name) })
	return out
}

// Lookup finds an entry by section and key name. Historical section names
// are accepted.
func (s *Store) Lookup(section, key string) (Value, error) {
	sec := s.resolveSection(section)
	if sec == nil {
		return nil, oops.Wrapf(ErrUnknownSection, "%q", section)
	}
	e := sec.Entry(key)
	if e == nil {
		return nil, oops.Wrapf(ErrUnknownEntry, "%q in section %s", key, sec.name)
	}
	return e, nil
}

// HasUnused reports whether the last load or save met sections or keys that
// are not part of the schema.
func (s *Store) HasUnused() bool { return s.unusedSections || s.unusedVariables }

func (s *Store) HasUnusedSections() bool  { return s.unusedSections }
func (s *Store) HasUnusedVariables() bool { return s.unusedVariables }

// LastLoad is the newest modification time seen by the last reparse.
func (s *Store) LastLoad() time.Time { return s.lastLoad }

func (s *Store) resolveSection(name string) *Section {
	if renamed, ok := s.renames[name]; ok {
		name = renamed
	}
	return s.sections[name]
}

// LocaleFromEnv derives a collation locale from the POSIX locale variables.
// "C", "POSIX" and unparsable values yield language.Und.
func LocaleFromEnv() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		return parsePosixLocale(value)
	}
	return language.Und
}

func parsePosixLocale(value string) language.Tag {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
