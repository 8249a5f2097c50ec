package contracts

import "fmt"

// Company is a selectable entity of the game universe.
// Loaded once per session and never mutated afterwards.
type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
}

// String renders the company the way prompts and logs show it: "Apple Inc. (AAPL)"
func (c Company) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Symbol)
}
