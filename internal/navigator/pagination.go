package navigator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ingestkit/wayfind/internal/model"
)

// Pagination pages through a tabular source with offset/limit queries.
//
// The seed is the source name plus the base query at offset 0. The only
// lead a page can produce is the synthetic "next page" cursor the query
// driver emits when a page is full; a short or empty page produces no
// lead, which drains the frontier and ends the run. Termination is the
// data running out, not depth or visited-set exhaustion.
type Pagination struct {
	frontier *Frontier

	source   string
	query    string
	pageSize int
}

// DefaultPageSize is the default page size for paginated queries.
const DefaultPageSize = 100

// CursorPrefix is the lead format the query driver emits for the next
// page, e.g. "offset=300".
const CursorPrefix = "offset="

// NewPagination creates a pagination navigator for the given source and
// base query. The query must not carry its own LIMIT/OFFSET clause; the
// driver appends paging itself.
func NewPagination(source, query string, pageSize int) (*Pagination, error) {
	if source == "" {
		return nil, fmt.Errorf("pagination: empty source")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("pagination: empty query")
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("pagination: page size must be positive, got %d", pageSize)
	}

	p := &Pagination{
		frontier: NewFrontier(OrderBFS),
		source:   source,
		query:    strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";")),
		pageSize: pageSize,
	}

	seed := model.NewSeedTask(model.StrategyPagination, source)
	seed.Params = model.Params{Query: p.query, Offset: 0, Limit: pageSize}
	p.frontier.Push(p.key(0), seed)
	return p, nil
}

// Next implements Navigator.
func (p *Pagination) Next() (model.Task, bool) {
	return p.frontier.Pop()
}

// Feedback implements Navigator. At most one lead is expected: the next
// page cursor. Its absence is the termination signal.
func (p *Pagination) Feedback(result model.Result) {
	if !result.Success {
		return
	}

	for _, lead := range result.Leads {
		offset, err := parseCursor(lead)
		if err != nil {
			p.frontier.NoteMalformed()
			continue
		}

		if p.frontier.Seen(p.key(offset)) {
			p.frontier.NoteDuplicate()
			continue
		}

		next := result.Task.ChildWithParams(p.source, model.Params{
			Query:  p.query,
			Offset: offset,
			Limit:  p.pageSize,
		})
		p.frontier.Push(p.key(offset), next)
	}
}

// Stats implements Navigator.
func (p *Pagination) Stats() model.FrontierStats {
	return p.frontier.Stats()
}

// key builds a visited-set key distinguishing pages of the same source.
func (p *Pagination) key(offset int) string {
	return p.source + "?" + CursorPrefix + strconv.Itoa(offset)
}

// parseCursor parses an "offset=N" lead into the next offset.
func parseCursor(lead string) (int, error) {
	raw, ok := strings.CutPrefix(lead, CursorPrefix)
	if !ok {
		return 0, fmt.Errorf("cursor %q does not start with %q", lead, CursorPrefix)
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("cursor %q has invalid offset", lead)
	}
	return offset, nil
}
