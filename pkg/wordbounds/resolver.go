package wordbounds

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// DefaultCacheSize is the default number of memoized resolutions.
// Identifiers are short, so 10k entries stay well under a few MB.
const DefaultCacheSize = 10_000

// Resolver runs the full pipeline of a rule set: pre pass, one engine, post
// pass. It is safe for concurrent use.
type Resolver struct {
	kind   Kind
	rs     rules.RuleSet
	engine Engine
	pre    ruleTable
	post   []postRule
	cache  *lru.Cache[string, []string]
	logger *slog.Logger
}

type options struct {
	cacheSize int
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*options)

// WithCache memoizes up to size resolutions. A size of zero or less
// disables the cache.
func WithCache(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// WithoutCache disables memoization.
// Use this when inputs are rarely repeated.
func WithoutCache() Option {
	return WithCache(0)
}

// WithLogger sets the logger for construction and pattern cache events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New validates rs and builds a resolver on the engine of the given kind.
func New(kind Kind, rs rules.RuleSet, opts ...Option) (*Resolver, error) {
	o := options{cacheSize: DefaultCacheSize, logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := rules.Validate(rs); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	engine, err := newEngine(kind, rs, o.logger)
	if err != nil {
		return nil, err
	}

	cls := rules.Derive(rs)
	r := &Resolver{
		kind:   kind,
		rs:     rs,
		engine: engine,
		pre:    compileRules(rules.PrePassRules(rs), cls),
		post:   compilePostRules(rules.PostPassRules(rs), cls),
		logger: o.logger,
	}
	if o.cacheSize > 0 {
		r.cache, err = lru.New[string, []string](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
	}

	o.logger.Debug("resolver ready",
		"engine", engine.Name(),
		"pre_rules", len(r.pre),
		"resolution_rules", len(rs.ResolutionPassRules()),
		"post_rules", len(r.post),
		"cache_size", o.cacheSize)
	return r, nil
}

// Resolve splits input into its ordered lowercase words. The returned slice
// belongs to the caller.
func (r *Resolver) Resolve(input string) ([]string, error) {
	if r.cache == nil {
		return r.resolveUncached(input)
	}

	if words, ok := r.cache.Get(input); ok {
		return slices.Clone(words), nil
	}

	words, err := r.resolveUncached(input)
	if err != nil {
		return nil, err
	}
	r.cache.Add(input, words)
	return slices.Clone(words), nil
}

func (r *Resolver) resolveUncached(input string) ([]string, error) {
	words, err := r.engine.Resolve(prePass(r.pre, input))
	if err != nil {
		return nil, fmt.Errorf("%s engine: %w", r.engine.Name(), err)
	}
	return postPass(r.post, words), nil
}

// Engine returns the underlying engine.
func (r *Resolver) Engine() Engine { return r.engine }

// Kind returns the engine kind.
func (r *Resolver) Kind() Kind { return r.kind }

// RuleSet returns the rule set the resolver was built with.
func (r *Resolver) RuleSet() rules.RuleSet { return r.rs }

// CacheSize returns the number of memoized resolutions (0 if the cache is
// disabled).
func (r *Resolver) CacheSize() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

// ClearCache empties the memoization cache.
func (r *Resolver) ClearCache() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// CacheEnabled returns true if caching is enabled.
func (r *Resolver) CacheEnabled() bool {
	return r.cache != nil
}

var defaultResolver = sync.OnceValues(func() (*Resolver, error) {
	return New(Automaton, rules.Default{})
})

// Resolve splits input with the automaton and the default rule set.
func Resolve(input string) ([]string, error) {
	r, err := defaultResolver()
	if err != nil {
		return nil, err
	}
	return r.Resolve(input)
}
