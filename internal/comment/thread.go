package comment

import "sort"

// RenderThread shapes stored comments for presentation, oldest first. Replies
// deeper than maxDepth are flattened upward: each one surfaces in the reply
// list of its nearest ancestor that still renders, so no stored comment is
// ever dropped.
func RenderThread(comments []Comment, maxDepth int) []Comment {
	if maxDepth < 1 {
		maxDepth = 1
	}

	nodes := make(map[string]*Comment, len(comments))
	ordered := make([]*Comment, 0, len(comments))
	for i := range comments {
		c := comments[i]
		c.Replies = nil
		nodes[c.ID] = &c
		ordered = append(ordered, &c)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	depth := func(c *Comment) int {
		d := 1
		for c.ParentID != nil {
			p, ok := nodes[*c.ParentID]
			if !ok {
				break
			}
			d++
			c = p
		}
		return d
	}

	replies := map[string][]*Comment{}
	var roots []*Comment
	for _, c := range ordered {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		host, ok := nodes[*c.ParentID]
		if !ok {
			// Orphaned reply; render it at the top level rather than lose it.
			roots = append(roots, c)
			continue
		}
		for depth(host) >= maxDepth {
			if host.ParentID == nil {
				break
			}
			p, ok := nodes[*host.ParentID]
			if !ok {
				break
			}
			host = p
		}
		replies[host.ID] = append(replies[host.ID], c)
	}

	var materialize func(c *Comment) Comment
	materialize = func(c *Comment) Comment {
		out := *c
		for _, r := range replies[c.ID] {
			out.Replies = append(out.Replies, materialize(r))
		}
		return out
	}

	result := make([]Comment, 0, len(roots))
	for _, r := range roots {
		result = append(result, materialize(r))
	}
	return result
}
