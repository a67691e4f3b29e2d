package confstore

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/afero"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

const (
	// UnusedVariableComment is appended to assignments the schema does not know.
	UnusedVariableComment = "# Unused variable"
	// UnusedSectionsBanner precedes the quarantined unknown sections at the
	// end of a saved file.
	UnusedSectionsBanner = "### These sections and their variables were not used: ###"
)

// Scope narrows a save. The zero Scope covers the whole store; a Section
// alone covers that section; Section and Entry together cover one entry.
type Scope struct {
	Section *Section
	Entry   Value
}

func (sc Scope) covers(sec *Section, e Value) bool {
	if sc.Section == nil {
		return true
	}
	return sc.Section == sec && (sc.Entry == nil || sc.Entry == e)
}

// targets reports whether the scope explicitly names e, which forces its
// line to be rewritten.
func (sc Scope) targets(sec *Section, e Value) bool {
	return sc.Section != nil && sc.covers(sec, e)
}

// Save writes every non-default value to the primary file.
func (s *Store) Save() error { return s.save(Scope{}) }

// SaveSection writes the non-default values of one section.
func (s *Store) SaveSection(sec *Section) error { return s.save(Scope{Section: sec}) }

// SaveEntry writes a single entry.
func (s *Store) SaveEntry(e Value) error {
	return s.save(Scope{Section: e.Section(), Entry: e})
}

func (s *Store) save(scope Scope) error {
	content, changed, err := s.Render(scope)
	if err != nil {
		return err
	}
	if !changed {
		log.WithFields(logger.Fields{
			"at":   "confstore.save",
			"path": s.path,
		}).Debug("config_save_skipped_unchanged")
		return nil
	}
	if err := afero.WriteFile(s.fs, s.path, content, 0o644); err != nil {
		return oops.Wrapf(err, "writing config %s", s.path)
	}
	log.WithFields(logger.Fields{
		"at":    "confstore.save",
		"path":  s.path,
		"bytes": len(content),
	}).Debug("config_saved")
	return nil
}

// Render computes what Save would write for scope, without writing it.
// changed is false when the primary file would be left untouched. Render
// updates the unused flags just as a save does.
func (s *Store) Render(scope Scope) (content []byte, changed bool, err error) {
	if s.path == "" {
		return nil, false, ErrNoPrimaryPath
	}
	if scope.Entry != nil {
		scope.Section = scope.Entry.Section()
	}
	if scope.Section != nil && scope.Section.store != s {
		return nil, false, oops.Wrapf(ErrUnknownSection, "%q belongs to another store", scope.Section.name)
	}

	existing, err := afero.ReadFile(s.fs, s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, false, oops.Wrapf(err, "reading config %s", s.path)
	}

	r := newRewriter(s, scope)
	if err := r.consume(bytes.NewReader(existing)); err != nil {
		return nil, false, oops.Wrapf(err, "reading config %s", s.path)
	}
	r.appendRemaining()
	return r.output(), r.changed, nil
}

// rewriter rebuilds the primary file one section bucket at a time.
type rewriter struct {
	store *Store
	scope Scope

	// pending holds in-scope non-default entries in a stable order; an
	// entry is dropped from remaining once its line is found.
	pending   []Value
	remaining map[Value]bool

	buckets map[*Section]*bytes.Buffer
	order   []*Section
	unknown bytes.Buffer
	junk    bytes.Buffer

	// current is nil while inside an unknown section.
	current *Section
	changed bool

	// eol terminates generated lines. It follows the first line of the
	// existing file so CRLF files stay CRLF.
	eol     string
	eolSeen bool
}

func newRewriter(s *Store, scope Scope) *rewriter {
	r := &rewriter{
		store:     s,
		scope:     scope,
		remaining: make(map[Value]bool),
		buckets:   make(map[*Section]*bytes.Buffer),
		current:   s.implicit,
		eol:       "\n",
	}
	for _, sec := range s.Sections() {
		for _, e := range sec.Entries() {
			if !scope.covers(sec, e) || e.MatchesDefault() {
				continue
			}
			r.pending = append(r.pending, e)
			r.remaining[e] = true
		}
	}
	return r
}

// bucket returns the output buffer of sec, creating it and recording its
// position on first use. created reports whether this call created it.
func (r *rewriter) bucket(sec *Section) (buf *bytes.Buffer, created bool) {
	if buf, ok := r.buckets[sec]; ok {
		return buf, false
	}
	buf = &bytes.Buffer{}
	r.buckets[sec] = buf
	r.order = append(r.order, sec)
	return buf, true
}

// target is where lines of the current section go.
func (r *rewriter) target() *bytes.Buffer {
	if r.current == nil {
		return &r.unknown
	}
	buf, _ := r.bucket(r.current)
	return buf
}

func (r *rewriter) flushJunk(dst *bytes.Buffer) {
	dst.Write(r.junk.Bytes())
	r.junk.Reset()
}

func (r *rewriter) consume(src io.Reader) error {
	reader := bufio.NewReader(src)
	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			if !strings.HasSuffix(raw, "\n") {
				raw += r.eol
			} else if !r.eolSeen {
				r.eol, r.eolSeen = lineEnding(raw), true
			}
			r.line(raw)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	// Trailing comments stay with the section they follow.
	if r.junk.Len() > 0 {
		r.flushJunk(r.target())
	}
	return nil
}

func (r *rewriter) line(raw string) {
	l := classify(raw)
	switch l.kind {
	case lineAssignment:
		r.assignment(raw, l)
	case lineHeader:
		r.header(raw, l)
	default:
		if strings.TrimSpace(raw) == UnusedSectionsBanner {
			// Blank lines before a previous banner stay with their section.
			if r.junk.Len() > 0 {
				r.flushJunk(r.target())
			}
			return
		}
		r.junk.WriteString(raw)
	}
}

func (r *rewriter) assignment(raw string, l line) {
	dst := r.target()
	r.flushJunk(dst)

	var e Value
	if r.current != nil {
		e = r.current.Entry(l.key)
	}
	if e == nil {
		r.store.unusedVariables = true
		dst.WriteString(markUnused(raw))
		return
	}

	delete(r.remaining, e)
	if !r.scope.covers(r.current, e) {
		dst.WriteString(raw)
		return
	}
	differs := !e.matchesText(l.value)
	if !differs && !r.scope.targets(r.current, e) {
		dst.WriteString(raw)
		return
	}
	if differs {
		r.changed = true
	}
	dst.WriteString(l.key + "=" + e.Format())
	if l.comment != "" {
		dst.WriteString(" " + l.comment)
	}
	dst.WriteString(lineEnding(raw))
}

func (r *rewriter) header(raw string, l line) {
	sec := r.store.resolveSection(l.section)
	r.current = sec
	if sec == nil {
		r.store.unusedSections = true
		r.flushJunk(&r.unknown)
		r.unknown.WriteString(raw)
		return
	}
	buf, created := r.bucket(sec)
	r.flushJunk(buf)
	if created {
		buf.WriteString(raw)
	}
}

// appendRemaining adds full blocks for non-default entries that never
// appeared in the file, under their own section.
func (r *rewriter) appendRemaining() {
	for _, e := range r.pending {
		if !r.remaining[e] {
			continue
		}
		r.changed = true
		sec := e.Section()
		separate := r.lastBucketNeedsSeparator()
		buf, created := r.bucket(sec)
		if created {
			if separate {
				buf.WriteString(r.eol)
			}
			buf.WriteString(sec.ShortHeader() + r.eol)
		}
		buf.WriteString(strings.ReplaceAll(e.FullBlock(), "\n", r.eol))
	}
}

func (r *rewriter) lastBucketNeedsSeparator() bool {
	if len(r.order) == 0 {
		return false
	}
	last := r.buckets[r.order[len(r.order)-1]].Bytes()
	return len(last) > 0 && !bytes.HasSuffix(last, []byte("\n\n")) && !bytes.HasSuffix(last, []byte("\n\r\n"))
}

func (r *rewriter) output() []byte {
	var out bytes.Buffer
	for _, sec := range r.order {
		out.Write(r.buckets[sec].Bytes())
	}
	if unknown := bytes.TrimRight(r.unknown.Bytes(), "\r\n"); len(unknown) > 0 {
		if r.lastBucketNeedsSeparator() {
			out.WriteString(r.eol)
		}
		out.WriteString(UnusedSectionsBanner + r.eol)
		out.Write(unknown)
		out.WriteString(r.eol + r.eol)
	}
	return out.Bytes()
}

func markUnused(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasSuffix(trimmed, UnusedVariableComment) {
		return raw
	}
	return trimmed + " " + UnusedVariableComment + lineEnding(raw)
}

// lineEnding returns the terminator of raw, "\r\n" or "\n".
func lineEnding(raw string) string {
	if strings.HasSuffix(raw, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
