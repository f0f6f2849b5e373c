package models

import "encoding/json"

// Nodes flattens a GraphQL connection ({ "nodes": [...] }) into its node
// list on decode, so domain structs expose plain slices instead of the
// wire-level connection wrapper.
type Nodes[T any] []T

func (n *Nodes[T]) UnmarshalJSON(data []byte) error {
	var conn struct {
		Nodes []T `json:"nodes"`
	}
	if err := json.Unmarshal(data, &conn); err != nil {
		return err
	}
	*n = conn.Nodes
	return nil
}

func (n Nodes[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]T(n))
}
