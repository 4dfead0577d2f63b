package commentsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"golang.org/x/text/cases"
)

const separatorWidth = 100

// Searcher prints the changesets whose comment contains a keyword.
type Searcher struct {
	env      registry.Environment
	settings *Settings
	connect  Connector
	now      func() time.Time
}

// ValidateArguments implements registry.Handler. The first argument is the
// keyword.
func (s *Searcher) ValidateArguments(args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return errors.New(`usage params of this command: "comment keyword"`)
	}
	return nil
}

// Invoke implements registry.Handler.
func (s *Searcher) Invoke(ctx context.Context, args []string) error {
	if err := s.ValidateArguments(args); err != nil {
		return err
	}
	keyword := strings.TrimSpace(args[0])
	q := s.query()
	logger := ctxlog.FromContext(ctx).With("path", q.Path, "from", q.From, "to", q.To)

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	logger.Debug("Connecting to version control.", "server", s.env.ServerURI)
	history, err := s.connect(ctx, s.env.ServerURI)
	if err != nil {
		return fmt.Errorf("connecting to %v: %w", s.env.ServerURI, err)
	}
	defer func() {
		if cerr := history.Close(); cerr != nil {
			logger.Warn("Closing version control connection failed.", "error", cerr)
		}
	}()

	changesets, err := history.QueryHistory(ctx, q)
	if err != nil {
		return fmt.Errorf("querying history of %s: %w", q.Path, err)
	}
	if s.env.ErrOut != nil {
		fmt.Fprintf(s.env.ErrOut, "Searching in %d items...\n", len(changesets))
	}

	excluded := make(map[string]struct{}, len(s.settings.ExcludeOwners))
	for _, owner := range s.settings.ExcludeOwners {
		excluded[fold(owner)] = struct{}{}
	}
	needle := fold(keyword)
	workItemType := s.settings.WorkItemType
	if workItemType == "" {
		workItemType = defaultWorkItemType
	}

	matched := 0
	for _, cs := range changesets {
		if strings.TrimSpace(cs.Comment) == "" || !strings.Contains(fold(cs.Comment), needle) {
			continue
		}
		if _, skip := excluded[fold(cs.Owner)]; skip {
			continue
		}
		if err := writeChangeset(s.env.Out, cs, workItemType); err != nil {
			return err
		}
		matched++
		if s.settings.MaxResults > 0 && matched >= s.settings.MaxResults {
			logger.Debug("Result limit reached.", "max_results", s.settings.MaxResults)
			break
		}
	}

	logger.Info("Comment search finished.", "keyword", keyword, "scanned", len(changesets), "matched", matched)
	return nil
}

// query applies the defaults for unset settings.
func (s *Searcher) query() Query {
	now := s.now()
	q := Query{
		Path:       s.settings.ProjectPath,
		Recursion:  s.settings.Recursion,
		From:       s.settings.DateFrom,
		To:         s.settings.DateTo,
		Collection: s.settings.CollectionID,
	}
	if q.Path == "" {
		q.Path = defaultProjectPath
	}
	if q.From.IsZero() {
		y, m, d := now.Date()
		q.From = time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, -defaultLookback, 0)
	}
	if q.To.IsZero() {
		q.To = now.UTC()
	}
	return q
}

func writeChangeset(w io.Writer, cs Changeset, workItemType string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%d\n%s\n%s\n\n", cs.Comment, cs.ID, cs.CreationDate.Format("2006-01-02 15:04:05"), cs.Owner)

	if cs.Files != nil {
		b.WriteString("Files:\n")
		b.WriteString(indented(unique(cs.Files)))
	}
	if cs.WorkItems != nil {
		var titles []string
		for _, wi := range cs.WorkItems {
			if wi.Type == workItemType {
				titles = append(titles, wi.Title)
			}
		}
		b.WriteString("\nWorkItems:\n")
		b.WriteString(indented(unique(titles)))
	}

	b.WriteString("\n\n")
	b.WriteString(strings.Repeat("#", separatorWidth))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// indented renders one tab-indented line per item.
func indented(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("\t" + item + "\n")
	}
	if len(items) == 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// unique trims items and drops repeats, keeping first occurrences.
func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
