package confstore

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const (
	testPath      = "/etc/test.conf"
	testUserDir   = "/etc/test.conf.d"
	testSystemDir = "/usr/lib/test/test.conf.d"
)

type fruit int

const (
	fruitFoo fruit = iota
	fruitBar
	fruitBaz
)

var fruitNames = map[fruit]string{
	fruitFoo: "FOO",
	fruitBar: "BAR",
	fruitBaz: "BAZ",
}

// testSchema mirrors how a daemon declares its configuration.
type testSchema struct {
	store *Store

	boolean *Entry[bool]
	str     *Entry[string]
	list    *Entry[[]string]

	section1 *Section
	s1Int    *Entry[int]
	s1Bool   *Entry[bool]

	section2 *Section
	custom   *Entry[fruit]
	s2Str    *Entry[string]
}

func newTestSchema(fs afero.Fs) *testSchema {
	s := New(Options{
		Path:      testPath,
		UserDir:   testUserDir,
		SystemDir: testSystemDir,
		Fs:        fs,
		Locale:    language.English,
		Renames:   map[string]string{"OldSection1": "Section1"},
	})
	ts := &testSchema{store: s}

	general := s.Implicit()
	ts.boolean = general.AddBool("Boolean", false, "A boolean\nwith two lines")
	ts.str = general.AddString("String", "Test", "A string")
	ts.list = general.AddStringList("StringList", []string{"Foo", "Bar"}, "A list")

	ts.section1 = s.AddSection("Section1")
	ts.s1Int = ts.section1.AddInt("Int", 9999, "An integer")
	ts.s1Bool = ts.section1.AddBool("Bool", true, "Another boolean")

	ts.section2 = s.AddSection("Section2")
	ts.custom = Enum(ts.section2, "Custom", fruitFoo, "Custom enum", fruitNames)
	ts.s2Str = ts.section2.AddString("String", "", "Free text")
	return ts
}

// epoch is a fixed base time; tests bump mtimes explicitly instead of
// relying on wall-clock resolution.
var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, fs afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	touch(t, fs, path, mtime)
}

func touch(t *testing.T, fs afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func mkdir(t *testing.T, fs afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path, 0o755))
	touch(t, fs, path, mtime)
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// countingFs records how often each path is opened.
type countingFs struct {
	afero.Fs
	opens map[string]int
}

func newCountingFs(base afero.Fs) *countingFs {
	return &countingFs{Fs: base, opens: make(map[string]int)}
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens[name]++
	return c.Fs.Open(name)
}
