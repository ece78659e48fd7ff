package core

// IDGenerator issues identifiers for new entities. Identifiers must sort in
// creation order.
type IDGenerator interface {
	NewID() string
}
