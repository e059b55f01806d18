package storage

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"sichat/api"
)

type conversationTitles []api.Conversation

func (c conversationTitles) String(i int) string { return c[i].Title }
func (c conversationTitles) Len() int            { return len(c) }

// SortConversations orders conversations newest first. Entries with an
// unparseable timestamp sink to the end in their original order.
func SortConversations(list []api.Conversation) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Updated().After(list[j].Updated())
	})
}

// FilterConversations fuzzy-matches query against conversation titles.
// Matches keep the recency order of list; an empty query returns list as is.
func FilterConversations(list []api.Conversation, query string) []api.Conversation {
	if query == "" {
		return list
	}

	matches := fuzzy.FindFrom(query, conversationTitles(list))
	if len(matches) == 0 {
		return []api.Conversation{}
	}

	indexes := make([]int, len(matches))
	for i, m := range matches {
		indexes[i] = m.Index
	}
	sort.Ints(indexes)

	out := make([]api.Conversation, len(indexes))
	for i, idx := range indexes {
		out[i] = list[idx]
	}
	return out
}
