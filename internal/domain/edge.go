package domain

import "fmt"

// Connection is one committed undirected edge occurrence.
// From is the node that was released, To the node it snapped to.
type Connection struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// NewConnection creates a new connection
func NewConnection(from, to int) Connection {
	return Connection{From: from, To: to}
}

// Involves checks if this connection touches the given node
func (c Connection) Involves(id int) bool {
	return c.From == id || c.To == id
}

// OtherEnd returns the node id on the other end of this connection
func (c Connection) OtherEnd(id int) int {
	if c.From == id {
		return c.To
	}
	return c.From
}

// Key returns an order-independent key for the endpoint pair
func (c Connection) Key() string {
	a, b := c.From, c.To
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}
