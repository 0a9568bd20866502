package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money représente un prix unitaire exact (pas de float64 pour éviter les erreurs d'arrondi)
// Les montants négatifs sont acceptés: le jeu de données contient des avoirs et ajustements
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney est la valeur par défaut d'un prix non renseigné
var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney crée une instance de Money à partir d'un décimal
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// ParseMoney convertit une chaîne ("9.99") en Money
func ParseMoney(value string) (Money, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Money{amount: amount}, nil
}

// Amount retourne le montant
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Float64 retourne le montant en float64 (pour les réponses JSON)
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// Equal compare deux montants numériquement ("12.5" == "12.50")
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsZero vérifie si le montant est zéro
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String retourne la représentation textuelle sans zéros superflus
func (m Money) String() string {
	return m.amount.String()
}
