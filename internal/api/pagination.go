package api

import "context"

// PageInfo is Linear's cursor pagination descriptor.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// Page is one page of a paginated connection query.
type Page[T any] struct {
	Nodes    []T
	PageInfo PageInfo
}

// Paginate drains a connection by calling fetch with the previous page's
// end cursor until the remote reports no further pages. The first call
// passes an empty cursor. Nodes are returned in remote-defined order.
func Paginate[T any](ctx context.Context, fetch func(ctx context.Context, cursor string) (Page[T], error)) ([]T, error) {
	var nodes []T
	cursor := ""
	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, page.Nodes...)
		if !page.PageInfo.HasNextPage || page.PageInfo.EndCursor == "" {
			return nodes, nil
		}
		cursor = page.PageInfo.EndCursor
	}
}
