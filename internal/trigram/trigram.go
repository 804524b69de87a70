// Package trigram provides a minimal concrete implementation of the
// "opaque full-text store" spec.md §1 places out of scope: only its
// external contract — Insert(id, text) and Search(pattern) — is
// load-bearing for this repository's core responsibility (spec.md §8
// property S6). It deliberately skips the production concerns (result
// caching, sharded buckets, slab allocation) the teacher's own
// internal/core.TrigramIndex carries, reusing only its idea of
// trigram-hash postings via cespare/xxhash/v2: every 3-byte window of
// each ASCII identifier token is hashed; there is no separate Unicode tier.
package trigram

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/dxr/internal/types"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Index is a token-level wildcard search store: every identifier-like
// token in every indexed file's text is recorded, along with a
// trigram-hash posting list over those tokens for candidate narrowing.
// Search matches whole tokens against a glob pattern where '*' is any
// run, '?' is any single character, and every other rune — including
// '_' — is literal (spec.md glossary: "Trigram index").
type Index struct {
	tokenFiles map[string][]types.FileID   // token -> file ids containing it, in insertion order
	fileTokens map[types.FileID][]string   // file id -> tokens in first-occurrence order
	postings   map[uint64][]string         // trigram hash -> tokens containing that trigram
	seenFile   map[types.FileID]bool
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		tokenFiles: make(map[string][]types.FileID),
		fileTokens: make(map[types.FileID][]string),
		postings:   make(map[uint64][]string),
		seenFile:   make(map[types.FileID]bool),
	}
}

// Match is one token occurrence found by SearchTokens: the file it
// occurs in and the matched token itself.
type Match struct {
	FileID types.FileID
	Token  string
}

// Insert indexes one file's decoded text under id, matching the "(id,
// text)" Trigram document of spec.md §3. Re-inserting an id replaces its
// previously recorded tokens rather than accumulating alongside them.
func (ix *Index) Insert(id types.FileID, text string) {
	if ix.seenFile[id] {
		ix.clearFile(id)
	}
	ix.seenFile[id] = true

	seen := make(map[string]bool)
	var order []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		order = append(order, tok)
		ix.tokenFiles[tok] = appendUniqueFileID(ix.tokenFiles[tok], id)
		for _, h := range trigramHashes(tok) {
			ix.postings[h] = appendUniqueToken(ix.postings[h], tok)
		}
	}
	ix.fileTokens[id] = order
}

// clearFile removes id from every token's posting list ahead of a
// re-insert, so stale tokens from a prior version of the file don't
// linger in tokenFiles/postings.
func (ix *Index) clearFile(id types.FileID) {
	for _, tok := range ix.fileTokens[id] {
		ix.tokenFiles[tok] = removeFileID(ix.tokenFiles[tok], id)
		if len(ix.tokenFiles[tok]) == 0 {
			delete(ix.tokenFiles, tok)
			for _, h := range trigramHashes(tok) {
				ix.postings[h] = removeToken(ix.postings[h], tok)
				if len(ix.postings[h]) == 0 {
					delete(ix.postings, h)
				}
			}
		}
	}
	delete(ix.fileTokens, id)
}

// Search returns, in ascending FileID order, every file containing at
// least one token matching pattern.
func (ix *Index) Search(pattern string) ([]types.FileID, error) {
	matches, err := ix.SearchTokens(pattern)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[types.FileID]bool, len(matches))
	for _, m := range matches {
		fileSet[m.FileID] = true
	}
	out := make([]types.FileID, 0, len(fileSet))
	for id := range fileSet {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// SearchTokens returns one Match per token occurrence matching pattern,
// ordered by ascending FileID and, within a file, by first-occurrence
// order in its source text — so a single file containing several
// distinct matching identifiers yields one Match per identifier
// (spec.md §8 S6), not one result per file.
func (ix *Index) SearchTokens(pattern string) ([]Match, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]bool)
	for _, tok := range ix.candidateTokens(pattern) {
		if re.MatchString(tok) {
			matched[tok] = true
		}
	}
	if len(matched) == 0 {
		return []Match{}, nil
	}

	files := make([]types.FileID, 0, len(ix.fileTokens))
	for id := range ix.fileTokens {
		files = append(files, id)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	var out []Match
	for _, id := range files {
		for _, tok := range ix.fileTokens[id] {
			if matched[tok] {
				out = append(out, Match{FileID: id, Token: tok})
			}
		}
	}
	if out == nil {
		out = []Match{}
	}
	return out, nil
}

// candidateTokens narrows the token set to scan using the longest
// wildcard-free run in pattern, when it's long enough to hash a
// trigram; otherwise it falls back to scanning every known token. This
// narrowing is a performance optimization only — correctness comes from
// the regexp match in SearchTokens.
func (ix *Index) candidateTokens(pattern string) []string {
	literal := longestLiteralRun(pattern)
	if len(literal) < 3 {
		all := make([]string, 0, len(ix.tokenFiles))
		for tok := range ix.tokenFiles {
			all = append(all, tok)
		}
		return all
	}

	var sets [][]string
	for _, h := range trigramHashes(literal) {
		sets = append(sets, ix.postings[h])
	}
	return intersect(sets)
}

func longestLiteralRun(pattern string) string {
	best := ""
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > len(best) {
			best = cur.String()
		}
		cur.Reset()
	}
	for _, r := range pattern {
		if r == '*' || r == '?' {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return best
}

// compileGlob translates pattern into an anchored regexp where '*' is
// any run, '?' is any single rune, and every other rune (including '_')
// is matched literally.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

func trigramHashes(s string) []uint64 {
	if len(s) < 3 {
		return nil
	}
	hashes := make([]uint64, 0, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		hashes = append(hashes, xxhash.Sum64String(s[i:i+3]))
	}
	return hashes
}

func appendUniqueFileID(ids []types.FileID, id types.FileID) []types.FileID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func appendUniqueToken(toks []string, tok string) []string {
	for _, existing := range toks {
		if existing == tok {
			return toks
		}
	}
	return append(toks, tok)
}

func removeFileID(ids []types.FileID, id types.FileID) []types.FileID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeToken(toks []string, tok string) []string {
	for i, existing := range toks {
		if existing == tok {
			return append(toks[:i], toks[i+1:]...)
		}
	}
	return toks
}

func intersect(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]bool, len(set))
		for _, tok := range set {
			if !seen[tok] {
				seen[tok] = true
				counts[tok]++
			}
		}
	}
	out := make([]string, 0, len(counts))
	for tok, c := range counts {
		if c == len(sets) {
			out = append(out, tok)
		}
	}
	return out
}
