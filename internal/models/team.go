package models

// Team is a Linear team.
type Team struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Key         string               `json:"key"`
	Description string               `json:"description,omitempty"`
	States      Nodes[WorkflowState] `json:"states,omitempty"`
}
