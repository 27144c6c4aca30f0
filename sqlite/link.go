package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adlio/linkcache"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// Compile-time interface verification.
var _ linkcache.LinkService = (*LinkService)(nil)

// defaultLatestLimit bounds the number of links returned when browsing
// without a query.
const defaultLatestLimit = 50

// scanLimit bounds the fallback table scan used when full-text retrieval
// yields no candidates.
const scanLimit = 2000

// Relative field weights in relevance ranking.
const (
	titleWeight    = 2.0
	subtitleWeight = 1.0
)

// timeLayout persists timestamps as fixed-width UTC text. Zero-padded
// fractional seconds keep lexical ORDER BY on the TEXT column equal to
// chronological order; RFC3339Nano cannot be used here because it
// trims trailing zeros, which makes whole seconds sort after
// fractional ones.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LinkService implements linkcache.LinkService using SQLite with an
// FTS5 trigram index for candidate retrieval and fuzzy re-ranking.
type LinkService struct {
	db *DB
}

// NewLinkService creates a new LinkService.
func NewLinkService(db *DB) *LinkService {
	return &LinkService{db: db}
}

// Add upserts a link by URL. The stored row and its full-text index
// entry are replaced together in one transaction, so a concurrent
// reader never observes a half-old, half-new record. Updates are
// modeled as delete+insert rather than a partial merge.
func (s *LinkService) Add(ctx context.Context, link *linkcache.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.Timestamp.IsZero() {
		link.Timestamp = time.Now().UTC()
	}
	// Score is a search-result artifact, never an input.
	link.Score = 0

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM links WHERE url = ?", link.URL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM links_fts WHERE url = ?", link.URL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO links (url, id, title, subtitle, source, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, link.URL, link.ID, link.Title, link.Subtitle, link.Source,
		link.Timestamp.UTC().Format(timeLayout)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO links_fts (url, title, subtitle) VALUES (?, ?, ?)
	`, link.URL, link.Title, link.Subtitle); err != nil {
		return err
	}

	return tx.Commit()
}

// Remove deletes a link by URL. Removing a URL that is not stored is a
// no-op.
func (s *LinkService) Remove(ctx context.Context, link *linkcache.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM links WHERE url = ?", link.URL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM links_fts WHERE url = ?", link.URL); err != nil {
		return err
	}

	return tx.Commit()
}

// Commit checkpoints the write-ahead log. SQLite makes each Add/Remove
// durable on its own transaction commit, so this backend has no
// separate visibility phase; Commit exists for the batch API and forces
// WAL contents into the main database file.
func (s *LinkService) Commit(ctx context.Context) error {
	var busy, logged, checkpointed int
	err := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").
		Scan(&busy, &logged, &checkpointed)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

// Search returns links matching the query ordered by relevance rank
// descending, with Score populated. An empty query switches to browse
// mode: the most recent links by timestamp, with Score unset.
func (s *LinkService) Search(ctx context.Context, query string) ([]*linkcache.Link, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Latest(ctx, defaultLatestLimit)
	}

	candidates, err := s.ftsCandidates(ctx, query)
	if err != nil || len(candidates) == 0 {
		// A MATCH parse failure or a query with no trigram hits degrades
		// to a bounded scan; an interactive search box prefers empty or
		// approximate results over a hard error.
		candidates, err = s.scanCandidates(ctx)
		if err != nil {
			return nil, err
		}
	}

	return rank(query, candidates), nil
}

// Latest returns the n most recent links by timestamp descending.
// Non-positive n applies the default bound.
func (s *LinkService) Latest(ctx context.Context, n int) ([]*linkcache.Link, error) {
	if n <= 0 {
		n = defaultLatestLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, id, title, subtitle, source, timestamp
		FROM links
		ORDER BY timestamp DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLinks(rows)
}

// ftsCandidates retrieves candidate links via the trigram index. Tokens
// are OR-joined and quoted so a single misspelled token cannot empty the
// result set and user input cannot inject MATCH syntax.
func (s *LinkService) ftsCandidates(ctx context.Context, query string) ([]*linkcache.Link, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT links.url, links.id, links.title, links.subtitle, links.source, links.timestamp
		FROM links_fts
		JOIN links ON links.url = links_fts.url
		WHERE links_fts MATCH ?
		ORDER BY rank
		LIMIT 200
	`, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLinks(rows)
}

// scanCandidates returns a bounded most-recent-first slice of the whole
// table for fuzzy matching when the index produced nothing.
func (s *LinkService) scanCandidates(ctx context.Context) ([]*linkcache.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, id, title, subtitle, source, timestamp
		FROM links
		ORDER BY timestamp DESC
		LIMIT ?
	`, scanLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLinks(rows)
}

// buildMatchQuery converts free-form user input into a lenient FTS5
// MATCH expression: each whitespace token becomes a quoted phrase and
// tokens are OR-joined.
func buildMatchQuery(query string) string {
	var phrases []string
	for _, tok := range strings.Fields(query) {
		tok = strings.ReplaceAll(tok, `"`, `""`)
		phrases = append(phrases, `"`+tok+`"`)
	}
	return strings.Join(phrases, " OR ")
}

// rank scores candidates against the query and returns matches ordered
// by relevance descending. Links matching no token are dropped.
func rank(query string, candidates []*linkcache.Link) []*linkcache.Link {
	lowered := strings.ToLower(query)
	tokens := strings.Fields(lowered)

	var out []*linkcache.Link
	for _, link := range candidates {
		score := relevance(lowered, tokens, link)
		if score <= 0 {
			continue
		}
		link.Score = score
		out = append(out, link)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out
}

// relevance computes the fuzzy relevance of a link. The title carries
// twice the weight of the subtitle, a whole-query substring hit is the
// strongest signal, and tokens are scored independently so reordered
// words still match.
func relevance(query string, tokens []string, link *linkcache.Link) float64 {
	title := strings.ToLower(link.Title)
	subtitle := strings.ToLower(link.Subtitle)

	var score float64
	if strings.Contains(title, query) {
		score += 100 * titleWeight
	} else if subtitle != "" && strings.Contains(subtitle, query) {
		score += 100 * subtitleWeight
	}

	for _, tok := range tokens {
		score += titleWeight * fuzzyScore(tok, title)
		score += subtitleWeight * fuzzyScore(tok, subtitle)
	}

	return score
}

// fuzzyScore scores one token against one field. Matched tokens always
// contribute at least 1 so sparse matches with penalty-heavy scores
// still count toward relevance.
func fuzzyScore(pattern, target string) float64 {
	if pattern == "" || target == "" {
		return 0
	}
	matches := fuzzy.Find(pattern, []string{target})
	if len(matches) == 0 {
		return 0
	}
	score := float64(matches[0].Score)
	if score < 1 {
		score = 1
	}
	return score
}

// scanLinks reads link rows in the standard column order.
func scanLinks(rows *sql.Rows) ([]*linkcache.Link, error) {
	var links []*linkcache.Link
	for rows.Next() {
		var link linkcache.Link
		var timestamp string

		if err := rows.Scan(&link.URL, &link.ID, &link.Title, &link.Subtitle,
			&link.Source, &timestamp); err != nil {
			return nil, err
		}

		// RFC3339Nano is a superset of timeLayout, so parsing stays
		// lenient about the stored precision.
		var parseErr error
		link.Timestamp, parseErr = time.Parse(time.RFC3339Nano, timestamp)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", parseErr)
		}

		links = append(links, &link)
	}
	return links, rows.Err()
}
