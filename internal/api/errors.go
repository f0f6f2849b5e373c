package api

import (
	"fmt"
	"strings"
)

// APIError is an HTTP-level failure from the Linear endpoint
// (authentication, rate limiting, server errors).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("linear api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("linear api: %d", e.Status)
}

// ErrorItem is one entry of a GraphQL response's errors list.
type ErrorItem struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

// GraphQLError is a response-level failure: the HTTP exchange succeeded
// but the query or mutation was rejected.
type GraphQLError struct {
	Errors []ErrorItem
}

func (e *GraphQLError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "graphql error"
	}
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if item.Extensions.Code != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", item.Extensions.Code, item.Message))
			continue
		}
		messages = append(messages, item.Message)
	}
	return "graphql: " + strings.Join(messages, "; ")
}
