// Package i18n loads the run list language tables and picks one per request.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ojarena/internal/arena/runlist"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog holds one text table per language.
type Catalog struct {
	tags    []language.Tag
	tables  []runlist.Texts
	matcher language.Matcher
}

// NewCatalog builds a catalog from tables keyed by BCP 47 tag. The
// fallback language is used when nothing in a request matches.
func NewCatalog(tables map[string]runlist.Texts, fallback string) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no language tables")
	}
	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no table", fallback)
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		if name != fallback {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{fallback}, names...)

	c := &Catalog{}
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", name, err)
		}
		c.tags = append(c.tags, tag)
		c.tables = append(c.tables, tables[name])
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// LoadDir reads every <tag>.yaml file in dir. Each file is a flat map of
// text keys to strings.
func LoadDir(dir, fallback string) (*Catalog, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	tables := make(map[string]runlist.Texts, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read language table: %w", err)
		}
		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse language table %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		tables[name] = runlist.Texts(table)
	}
	return NewCatalog(tables, fallback)
}

// Match picks the table for an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) (runlist.Texts, language.Tag) {
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return c.tables[0], c.tags[0]
	}
	_, index, confidence := c.matcher.Match(desired...)
	if confidence == language.No {
		index = 0
	}
	return c.tables[index], c.tags[index]
}

// Languages lists the tags the catalog serves, fallback first.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}
