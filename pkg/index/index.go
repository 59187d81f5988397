// Package index builds and queries a compact search index over the words of
// source-code identifiers. Identifiers are resolved into words, normalized
// into terms, and stored in a finite state transducer mapping each term to
// the number of times it occurred.
package index

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"

	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

// MaxEdits is the largest edit distance Fuzzy accepts.
const MaxEdits = 2

// MaxIdentifierSize is the longest identifier, in bytes, AddReader accepts.
const MaxIdentifierSize = 1 << 20

// ErrTooManyEdits is returned by Fuzzy for distances above MaxEdits.
var ErrTooManyEdits = errors.New("edit distance too large")

// Entry is one indexed term with its occurrence count.
type Entry struct {
	Term  string `json:"term"`
	Count uint64 `json:"count"`
}

// Builder accumulates terms from identifiers.
type Builder struct {
	resolver    *wordbounds.Resolver
	normalizer  *Normalizer
	counts      map[string]uint64
	identifiers int
}

// NewBuilder creates a builder resolving identifiers with r and normalizing
// words with n. A nil normalizer means NewNormalizer().
func NewBuilder(r *wordbounds.Resolver, n *Normalizer) *Builder {
	if n == nil {
		n = NewNormalizer()
	}
	return &Builder{
		resolver:   r,
		normalizer: n,
		counts:     make(map[string]uint64),
	}
}

// Add resolves one identifier and counts each of its terms.
func (b *Builder) Add(identifier string) error {
	words, err := b.resolver.Resolve(identifier)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", identifier, err)
	}
	for _, w := range words {
		term := b.normalizer.Normalize(w)
		if term == "" {
			continue
		}
		b.counts[term]++
	}
	b.identifiers++
	return nil
}

// AddReader adds every whitespace-separated identifier read from r and
// returns how many were added. Lines may be of any length; a single
// identifier may be up to MaxIdentifierSize bytes.
func (b *Builder) AddReader(r io.Reader) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxIdentifierSize)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if err := b.Add(scanner.Text()); err != nil {
			return added, err
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("reading identifiers: %w", err)
	}
	return added, nil
}

// Len returns the number of distinct terms.
func (b *Builder) Len() int {
	return len(b.counts)
}

// Identifiers returns the number of identifiers added.
func (b *Builder) Identifiers() int {
	return b.identifiers
}

// Write encodes the index to w. Terms are inserted in sorted order as the
// FST builder requires.
func (b *Builder) Write(w io.Writer) error {
	terms := make([]string, 0, len(b.counts))
	for term := range b.counts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	builder, err := vellum.New(w, nil)
	if err != nil {
		return err
	}
	for _, term := range terms {
		if err := builder.Insert([]byte(term), b.counts[term]); err != nil {
			builder.Close()
			return fmt.Errorf("inserting %q: %w", term, err)
		}
	}
	return builder.Close()
}

// WriteFile writes the index to path.
func (b *Builder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Index is a read-only view of a written index. Safe for concurrent use.
type Index struct {
	fst        *vellum.FST
	normalizer *Normalizer
	mu         sync.RWMutex
}

// Open memory-maps the index at path. Queries are normalized with n, which
// must match the normalizer the index was built with; nil means NewNormalizer().
func Open(path string, n *Normalizer) (*Index, error) {
	fst, err := vellum.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	return newIndex(fst, n), nil
}

// Load reads an index from its encoded bytes.
func Load(data []byte, n *Normalizer) (*Index, error) {
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return newIndex(fst, n), nil
}

func newIndex(fst *vellum.FST, n *Normalizer) *Index {
	if n == nil {
		n = NewNormalizer()
	}
	return &Index{fst: fst, normalizer: n}
}

// Contains reports whether the normalized word is indexed.
func (ix *Index) Contains(word string) bool {
	return ix.Count(word) > 0
}

// Count returns how often the normalized word occurred, 0 if never.
func (ix *Index) Count(word string) uint64 {
	term := ix.normalizer.Normalize(word)

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.fst == nil {
		return 0
	}

	count, exists, _ := ix.fst.Get([]byte(term))
	if !exists {
		return 0
	}
	return count
}

// Len returns the number of distinct terms.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.fst == nil {
		return 0
	}
	return ix.fst.Len()
}

// Prefix returns up to limit terms starting with the normalized prefix, in
// lexical order. A limit of zero or less returns all of them.
func (ix *Index) Prefix(prefix string, limit int) ([]Entry, error) {
	start := []byte(ix.normalizer.Normalize(prefix))

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.fst == nil {
		return nil, nil
	}

	itr, err := ix.fst.Iterator(start, prefixEnd(start))
	return collect(itr, err, limit)
}

// Fuzzy returns up to limit terms within maxEdits edits of the normalized
// term, in lexical order.
func (ix *Index) Fuzzy(term string, maxEdits uint8, limit int) ([]Entry, error) {
	if maxEdits > MaxEdits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyEdits, maxEdits, MaxEdits)
	}
	query := ix.normalizer.Normalize(term)

	lb, err := levenshtein.NewLevenshteinAutomatonBuilder(maxEdits, false)
	if err != nil {
		return nil, err
	}
	dfa, err := lb.BuildDfa(query, maxEdits)
	if err != nil {
		return nil, fmt.Errorf("building automaton for %q: %w", query, err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.fst == nil {
		return nil, nil
	}

	itr, err := ix.fst.Search(dfa, nil, nil)
	return collect(itr, err, limit)
}

// Close releases FST resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.fst != nil {
		err := ix.fst.Close()
		ix.fst = nil
		return err
	}
	return nil
}

func collect(itr vellum.Iterator, err error, limit int) ([]Entry, error) {
	var out []Entry
	for err == nil {
		key, val := itr.Current()
		out = append(out, Entry{Term: string(key), Count: val})
		if limit > 0 && len(out) >= limit {
			break
		}
		err = itr.Next()
	}
	if err != nil && !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, err
	}
	return out, nil
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when there is none.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
