package services

import (
	"sync"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
)

// checkoutStates tracks where each user is in the checkout flow:
// Idle -> FormFilled -> Submitting -> Redirected | Failed.
// Only one submission per user may be in flight.
type checkoutStates struct {
	mu     sync.Mutex
	states map[string]models.CheckoutState
}

func newCheckoutStates() *checkoutStates {
	return &checkoutStates{states: make(map[string]models.CheckoutState)}
}

func (c *checkoutStates) get(userID string) models.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[userID]; ok {
		return st
	}
	return models.CheckoutIdle
}

// formFilled records a valid form unless a submission is in flight.
func (c *checkoutStates) formFilled(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[userID] != models.CheckoutSubmitting {
		c.states[userID] = models.CheckoutFormFilled
	}
}

// begin moves userID to Submitting. It reports false when a submission is
// already in flight.
func (c *checkoutStates) begin(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[userID] == models.CheckoutSubmitting {
		return false
	}
	c.states[userID] = models.CheckoutSubmitting
	return true
}

func (c *checkoutStates) finish(userID string, st models.CheckoutState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st == models.CheckoutIdle {
		delete(c.states, userID)
		return
	}
	c.states[userID] = st
}
