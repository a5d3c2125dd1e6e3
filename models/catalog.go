package models

import (
	"bytes"
	"encoding/json"
)

// ItemID identifies a product or class. The storefront API emits both numeric
// and string ids, so decoding accepts either.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string { return string(id) }

// Product is a physical item sold in the shop.
type Product struct {
	ID          ItemID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	InStock     bool   `json:"inStock"`
}

// ClassType distinguishes virtual sessions from studio sessions.
type ClassType string

const (
	ClassVirtual  ClassType = "virtual"
	ClassInPerson ClassType = "in-person"
)

// FitnessClass is a bookable class session.
type FitnessClass struct {
	ID             ItemID    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Type           ClassType `json:"type"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Duration       string    `json:"duration"`
	Price          Price     `json:"price"`
	SpotsAvailable int       `json:"spotsAvailable"`
	Category       string    `json:"category"`
	Instructor     string    `json:"instructor"`
}

// Booking is the confirmation record returned when a user is subscribed to a class.
type Booking struct {
	ID        ItemID `json:"id"`
	ClassID   ItemID `json:"classId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}
