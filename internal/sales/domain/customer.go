package domain

import "errors"

// CustomerID représente l'identifiant client tel qu'il apparaît dans le fichier source
type CustomerID string

// Customer représente un client (jamais mis à jour après sa première insertion)
type Customer struct {
	id      CustomerID
	country string
}

// NewCustomer crée un nouveau client avec validation
func NewCustomer(id CustomerID, country string) (*Customer, error) {
	if id == "" {
		return nil, errors.New("customer ID cannot be empty")
	}
	return &Customer{id: id, country: country}, nil
}

// ID retourne l'identifiant du client
func (c *Customer) ID() CustomerID {
	return c.id
}

// Country retourne le pays du client
func (c *Customer) Country() string {
	return c.country
}
